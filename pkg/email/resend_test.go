package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSendFollowup(t *testing.T) {
	var received sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", r.Header.Get("Authorization"))
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &ResendClient{
		apiKey:  "test-key",
		from:    "meetings@example.com",
		baseURL: server.URL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}

	data := FollowupData{
		MeetingTitle: "Weekly sync",
		Summary:      "Release planned.",
		ActionItems:  []string{"Ship on Friday"},
		Decisions:    []string{"Go"},
	}
	err := client.SendFollowup(context.Background(), []string{"an@example.com", "binh@example.com"}, data)
	if err != nil {
		t.Fatalf("SendFollowup failed: %v", err)
	}

	if len(received.To) != 2 {
		t.Errorf("expected 2 recipients, got %v", received.To)
	}
	if received.Subject != "Meeting summary: Weekly sync" {
		t.Errorf("unexpected subject %q", received.Subject)
	}
	if !strings.Contains(received.HTML, "Release planned.") {
		t.Errorf("summary missing from body: %s", received.HTML)
	}
	if !strings.Contains(received.HTML, "<li>Ship on Friday</li>") {
		t.Errorf("action item missing from body: %s", received.HTML)
	}
}

func TestSendFollowup_NoRecipients(t *testing.T) {
	client := &ResendClient{baseURL: "http://unused", client: http.DefaultClient}
	if err := client.SendFollowup(context.Background(), nil, FollowupData{}); err == nil {
		t.Fatal("expected error with no recipients")
	}
}

func TestSendFollowup_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := &ResendClient{baseURL: server.URL, client: &http.Client{Timeout: 5 * time.Second}}
	err := client.SendFollowup(context.Background(), []string{"an@example.com"}, FollowupData{MeetingTitle: "X"})
	if err == nil {
		t.Fatal("expected error on 422 response")
	}
}
