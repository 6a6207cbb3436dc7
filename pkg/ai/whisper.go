package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// WhisperClient is a minimal client for a whisper-server speech-to-text
// endpoint. The engine is consumed as an opaque capability: audio URL
// in, text plus timed segments out.
type WhisperClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewWhisperClient creates a whisper client using values from the
// provided config. Pass a nil config to fall back to environment
// variables.
func NewWhisperClient(cfg *config.WhisperConfig) *WhisperClient {
	var base, model string
	if cfg != nil {
		base = cfg.BaseURL
		model = cfg.Model
	}
	if base == "" {
		base = os.Getenv("WHISPER_BASE_URL")
		if base == "" {
			base = "http://localhost:9300"
		}
	}
	if model == "" {
		model = "base"
	}

	return &WhisperClient{
		baseURL: base,
		model:   model,
		// Transcription of a long meeting is slow
		client: &http.Client{Timeout: 10 * time.Minute},
	}
}

// TranscribeRequest is the shape for transcription requests
type TranscribeRequest struct {
	AudioURL string `json:"audio_url"`
	Model    string `json:"model,omitempty"`
}

// Segment is one timed chunk of recognized speech
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscribeResponse is a minimal response shape
type TranscribeResponse struct {
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

// Transcribe sends an audio URL to whisper-server and returns the result
func (w *WhisperClient) Transcribe(ctx context.Context, audioURL string) (*TranscribeResponse, error) {
	reqBody := TranscribeRequest{
		AudioURL: audioURL,
		Model:    w.model,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := w.baseURL + "/v1/transcribe"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("whisper returned status %d", resp.StatusCode)
	}

	var tr TranscribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}
	if tr.Text == "" {
		return nil, fmt.Errorf("empty transcript from whisper")
	}
	return &tr, nil
}
