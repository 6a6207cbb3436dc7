package cache

import (
	"context"
	"time"
)

// Store is a small key-value cache with expiration. Backed by Redis in
// production and by MemoryStore in tests. All operations are best-effort
// from the caller's point of view: a cache failure must never be fatal.
type Store interface {
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}
