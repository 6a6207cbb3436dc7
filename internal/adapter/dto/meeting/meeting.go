package meeting

import (
	"time"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// CreateMeetingRequest is the payload for creating a meeting and
// joining a bot into the call
type CreateMeetingRequest struct {
	Title        string             `json:"title" validate:"required,max=255"`
	MeetingURL   string             `json:"meeting_url" validate:"required,url"`
	BotName      string             `json:"bot_name,omitempty" validate:"omitempty,max=100"`
	Participants []ParticipantInput `json:"participants,omitempty" validate:"omitempty,dive"`
}

// ParticipantInput is one followup recipient
type ParticipantInput struct {
	Name  string `json:"name,omitempty" validate:"omitempty,max=255"`
	Email string `json:"email" validate:"required,email"`
}

// MeetingResponse is the API projection of a meeting
type MeetingResponse struct {
	ID            int64                  `json:"id"`
	Title         string                 `json:"title"`
	MeetingURL    string                 `json:"meeting_url,omitempty"`
	Status        entities.MeetingStatus `json:"status"`
	ProviderBotID string                 `json:"provider_bot_id,omitempty"`
	HasAudio      bool                   `json:"has_audio"`
	LastError     string                 `json:"last_error,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// FromEntity converts a meeting entity to its API projection
func FromEntity(m *entities.Meeting) MeetingResponse {
	resp := MeetingResponse{
		ID:         m.ID,
		Title:      m.Title,
		MeetingURL: m.URL,
		Status:     m.Status,
		HasAudio:   m.HasAudio(),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.ProviderBotID != nil {
		resp.ProviderBotID = *m.ProviderBotID
	}
	if m.LastError != nil {
		resp.LastError = *m.LastError
	}
	return resp
}

// FromEntities converts a slice of meetings
func FromEntities(meetings []*entities.Meeting) []MeetingResponse {
	out := make([]MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, FromEntity(m))
	}
	return out
}

// RetryResponse reports the stage a retry re-entered
type RetryResponse struct {
	MeetingID int64                  `json:"meeting_id"`
	Status    entities.MeetingStatus `json:"status"`
}

// WebhookResponse is the uniform webhook answer
type WebhookResponse struct {
	Status string `json:"status"`
}
