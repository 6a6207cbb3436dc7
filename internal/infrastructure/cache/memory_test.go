package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "recall:bot:b1", "42", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := store.Get(ctx, "recall:bot:b1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || value != "42" {
		t.Errorf("expected 42, got %q (found=%v)", value, ok)
	}

	if _, ok, _ := store.Get(ctx, "missing"); ok {
		t.Error("unexpected hit for missing key")
	}

	if err := store.Delete(ctx, "recall:bot:b1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "recall:bot:b1"); ok {
		t.Error("key still present after delete")
	}
}

func TestMemoryStore_Expiration(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("expired key still readable")
	}
}
