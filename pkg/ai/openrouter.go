package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// OpenRouterClient is a minimal client for OpenRouter chat completions,
// used for meeting summarization
type OpenRouterClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenRouterClient creates an OpenRouter client using values from the
// provided config. Pass a nil config to fall back to environment variables.
func NewOpenRouterClient(cfg *config.OpenRouterConfig) *OpenRouterClient {
	var apiKey, base, model string
	if cfg != nil {
		apiKey = cfg.APIKey
		base = cfg.BaseURL
		model = cfg.Model
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if base == "" {
		base = os.Getenv("OPENROUTER_API_URL")
		if base == "" {
			base = "https://openrouter.ai/api"
		}
	}
	if model == "" {
		model = "openai/gpt-4.1"
	}

	return &OpenRouterClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string      `json:"model,omitempty"`
	Messages    interface{} `json:"messages,omitempty"`
	Temperature float64     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// SummaryResult is the structured output expected from the model
type SummaryResult struct {
	Summary     string   `json:"summary"`
	ActionItems []string `json:"action_items"`
	Decisions   []string `json:"decisions"`
}

const summaryPrompt = `You are a meeting assistant. Summarize the following meeting transcript.
Respond with a JSON object only, no prose, using this shape:
{"summary": "...", "action_items": ["..."], "decisions": ["..."]}

Transcript:

`

// Summarize sends the transcript to OpenRouter and parses the structured result
func (o *OpenRouterClient) Summarize(ctx context.Context, transcript string) (*SummaryResult, error) {
	reqBody := ChatRequest{
		Model:       o.model,
		Messages:    []map[string]string{{"role": "user", "content": summaryPrompt + transcript}},
		Temperature: 0.3,
		MaxTokens:   4000,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := o.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("openrouter returned status %d", resp.StatusCode)
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, err
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("empty response from openrouter")
	}

	content := stripCodeFence(cr.Choices[0].Message.Content)
	var result SummaryResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		// Model ignored the JSON instruction; keep the raw text as summary
		return &SummaryResult{Summary: strings.TrimSpace(content)}, nil
	}
	if result.Summary == "" {
		return nil, fmt.Errorf("empty summary from openrouter")
	}
	return &result, nil
}

// stripCodeFence removes a markdown ```json fence if the model added one
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
