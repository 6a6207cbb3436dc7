package validator

import (
	"strings"
	"testing"
)

type createRequest struct {
	Title      string `json:"title" validate:"required"`
	MeetingURL string `json:"meeting_url" validate:"required,url"`
}

func TestValidate(t *testing.T) {
	v := New()

	if err := v.Validate(&createRequest{Title: "Weekly sync", MeetingURL: "https://zoom.us/j/123"}); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}

	err := v.Validate(&createRequest{Title: "Weekly sync"})
	if err == nil {
		t.Fatal("expected a validation error for the missing URL")
	}
	if !strings.Contains(err.Error(), "meeting_url") {
		t.Errorf("error should name the json field, got: %v", err)
	}
}
