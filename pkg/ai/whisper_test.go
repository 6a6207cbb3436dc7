package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTranscribe(t *testing.T) {
	var received TranscribeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/transcribe" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&received)
		json.NewEncoder(w).Encode(TranscribeResponse{
			Text:     "hello world",
			Language: "en",
			Segments: []Segment{{Start: 0, End: 1.2, Text: "hello world"}},
		})
	}))
	defer server.Close()

	client := &WhisperClient{
		baseURL: server.URL,
		model:   "base",
		client:  &http.Client{Timeout: 5 * time.Second},
	}

	result, err := client.Transcribe(context.Background(), "https://x/a.mp3")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if result.Text != "hello world" {
		t.Errorf("unexpected text %q", result.Text)
	}
	if len(result.Segments) != 1 || result.Segments[0].End != 1.2 {
		t.Errorf("unexpected segments %+v", result.Segments)
	}
	if received.AudioURL != "https://x/a.mp3" {
		t.Errorf("audio url not forwarded, got %q", received.AudioURL)
	}
	if received.Model != "base" {
		t.Errorf("model not forwarded, got %q", received.Model)
	}
}

func TestTranscribe_EmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(TranscribeResponse{Text: ""})
	}))
	defer server.Close()

	client := &WhisperClient{baseURL: server.URL, client: &http.Client{Timeout: 5 * time.Second}}
	if _, err := client.Transcribe(context.Background(), "https://x/a.mp3"); err == nil {
		t.Fatal("expected error on empty transcript")
	}
}

func TestTranscribe_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := &WhisperClient{baseURL: server.URL, client: &http.Client{Timeout: 5 * time.Second}}
	if _, err := client.Transcribe(context.Background(), "https://x/a.mp3"); err == nil {
		t.Fatal("expected error on 500 response")
	}
}
