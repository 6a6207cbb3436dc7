package recall

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// ErrNotFound is returned when a region answers a definitive 404. A 404
// is authoritative and stops the regional cascade: the resource does
// not exist, so asking another region would not help.
var ErrNotFound = errors.New("recall: resource not found")

// Client is a minimal client for the bot provider API. Every call walks
// the configured regional endpoints in order; within one endpoint two
// authentication header shapes are tried before moving on.
type Client struct {
	apiKey   string
	baseURLs []string
	client   *http.Client
	logger   *zap.Logger
}

// NewClient creates a provider client from config
func NewClient(cfg *config.RecallConfig, logger *zap.Logger) *Client {
	return &Client{
		apiKey:   cfg.APIKey,
		baseURLs: cfg.BaseURLs,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// StartBot joins a bot into the meeting. The correlation id rides along
// as metadata and is echoed back in every later webhook for this bot.
func (c *Client) StartBot(ctx context.Context, meetingURL, botName, correlationID string) (*Bot, error) {
	body := startBotRequest{
		MeetingURL: meetingURL,
		BotName:    botName,
		Metadata:   map[string]string{"meeting_id": correlationID},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPost, "/bot", b)
	if err != nil {
		return nil, err
	}

	var bot Bot
	if err := json.Unmarshal(data, &bot); err != nil {
		return nil, fmt.Errorf("recall: decoding bot response: %w", err)
	}
	return &bot, nil
}

// GetBot fetches a bot record by provider id
func (c *Client) GetBot(ctx context.Context, botID string) (*Bot, error) {
	data, err := c.do(ctx, http.MethodGet, "/bot/"+botID, nil)
	if err != nil {
		return nil, err
	}

	var bot Bot
	if err := json.Unmarshal(data, &bot); err != nil {
		return nil, fmt.Errorf("recall: decoding bot response: %w", err)
	}
	return &bot, nil
}

// GetRecording fetches a recording record by provider id
func (c *Client) GetRecording(ctx context.Context, recordingID string) (*Recording, error) {
	data, err := c.do(ctx, http.MethodGet, "/recording/"+recordingID, nil)
	if err != nil {
		return nil, err
	}

	var recording Recording
	if err := json.Unmarshal(data, &recording); err != nil {
		return nil, fmt.Errorf("recall: decoding recording response: %w", err)
	}
	return &recording, nil
}

// StopBot asks the provider to leave the call
func (c *Client) StopBot(ctx context.Context, botID string) error {
	_, err := c.do(ctx, http.MethodPost, "/bot/"+botID+"/leave_call", nil)
	return err
}

// DownloadAudio streams an audio URL. Pre-signed URLs work without
// auth; provider-hosted URLs may demand the API key, so a 401/403 on
// the bare request is retried with each auth header shape.
func (c *Client) DownloadAudio(ctx context.Context, url string) (io.ReadCloser, string, error) {
	for _, auth := range []string{"", "Token " + c.apiKey, c.apiKey} {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, "", err
		}
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, "", err
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			resp.Body.Close()
			continue
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, "", fmt.Errorf("recall: download returned status %d", resp.StatusCode)
		}
		return resp.Body, resp.Header.Get("Content-Type"), nil
	}
	return nil, "", fmt.Errorf("recall: download unauthorized on every auth variant")
}

// do walks the regional endpoints. Auth failure or a network/server
// error advances to the next region; a definitive 404 is terminal.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var lastErr error

	for _, baseURL := range c.baseURLs {
		data, err := c.doRegion(ctx, baseURL, method, path, body)
		if err == nil {
			return data, nil
		}
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		c.logger.Warn("provider region failed, trying next",
			zap.String("base_url", baseURL),
			zap.String("path", path),
			zap.Error(err))
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("recall: no endpoints configured")
	}
	return nil, lastErr
}

// doRegion tries one endpoint with both auth header shapes
func (c *Client) doRegion(ctx context.Context, baseURL, method, path string, body []byte) ([]byte, error) {
	var lastErr error

	for _, auth := range []string{"Token " + c.apiKey, c.apiKey} {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", auth)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			lastErr = fmt.Errorf("recall: status %d from %s", resp.StatusCode, baseURL)
			continue
		case resp.StatusCode == http.StatusNotFound:
			return nil, ErrNotFound
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("recall: status %d from %s", resp.StatusCode, baseURL)
		case resp.StatusCode >= 400:
			return nil, fmt.Errorf("recall: status %d from %s: %s", resp.StatusCode, baseURL, string(data))
		}

		if readErr != nil {
			return nil, readErr
		}
		return data, nil
	}

	return nil, lastErr
}
