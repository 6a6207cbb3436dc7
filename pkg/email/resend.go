package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"time"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// ResendClient is a minimal client for the Resend email API
type ResendClient struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
}

// NewResendClient creates a Resend client using values from the provided
// config. Pass a nil config to fall back to environment variables.
func NewResendClient(cfg *config.EmailConfig) *ResendClient {
	var apiKey, from string
	if cfg != nil {
		apiKey = cfg.APIKey
		from = cfg.From
	}
	if apiKey == "" {
		apiKey = os.Getenv("RESEND_API_KEY")
	}
	if from == "" {
		from = "meetings@example.com"
	}

	return &ResendClient{
		apiKey:  apiKey,
		from:    from,
		baseURL: "https://api.resend.com",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// sendRequest is the Resend send payload
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// FollowupData feeds the followup email template
type FollowupData struct {
	MeetingTitle string
	Summary      string
	ActionItems  []string
	Decisions    []string
}

var followupTemplate = template.Must(template.New("followup").Parse(`
<h2>Meeting summary: {{.MeetingTitle}}</h2>
<p>{{.Summary}}</p>
{{if .ActionItems}}
<h3>Action items</h3>
<ul>
{{range .ActionItems}}<li>{{.}}</li>
{{end}}</ul>
{{end}}
{{if .Decisions}}
<h3>Decisions</h3>
<ul>
{{range .Decisions}}<li>{{.}}</li>
{{end}}</ul>
{{end}}
`))

// SendFollowup renders the followup email and sends it to all recipients
func (r *ResendClient) SendFollowup(ctx context.Context, recipients []string, data FollowupData) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients")
	}

	var body bytes.Buffer
	if err := followupTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render followup email: %w", err)
	}

	reqBody := sendRequest{
		From:    r.from,
		To:      recipients,
		Subject: fmt.Sprintf("Meeting summary: %s", data.MeetingTitle),
		HTML:    body.String(),
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/emails", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend returned status %d", resp.StatusCode)
	}
	return nil
}
