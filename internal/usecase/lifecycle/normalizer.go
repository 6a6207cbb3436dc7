package lifecycle

import (
	"encoding/json"
	"strings"

	apperrors "github.com/johnquangdev/meeting-summarizer/errors"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/external/recall"
)

// Normalizer parses heterogeneous provider webhooks into LifecycleEvent.
// Pure: no I/O, no side effects. Three envelope families are understood:
// the event-keyed recall envelope (data.bot / data.recording), the flat
// recall envelope (top-level recordings list), and the Zoom envelope
// (payload.object.recording_files). New providers add a variant here
// instead of branching inside existing parse logic.
type Normalizer struct{}

// NewNormalizer creates a normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// recallEventEnvelope is the event-keyed recall webhook shape
type recallEventEnvelope struct {
	Event string `json:"event"`
	Data  struct {
		Bot       *recall.Bot       `json:"bot,omitempty"`
		Recording *recall.Recording `json:"recording,omitempty"`
		Data      struct {
			Code    string `json:"code,omitempty"`
			SubCode string `json:"sub_code,omitempty"`
		} `json:"data"`
	} `json:"data"`
}

// recallFlatEnvelope is the flat recall webhook shape: bot fields at the
// top level with an embedded recordings list
type recallFlatEnvelope struct {
	ID         string             `json:"id"`
	BotID      string             `json:"bot_id,omitempty"`
	Status     string             `json:"status,omitempty"`
	Metadata   map[string]string  `json:"metadata,omitempty"`
	Recordings []recall.Recording `json:"recordings,omitempty"`

	// Top-level fallbacks seen on some events
	DownloadURL string `json:"download_url,omitempty"`
	AudioURL    string `json:"audio_url,omitempty"`
	URL         string `json:"url,omitempty"`
}

// zoomEnvelope is Zoom's webhook shape
type zoomEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Object struct {
			ID             json.Number `json:"id"`
			UUID           string      `json:"uuid,omitempty"`
			RecordingFiles []zoomFile  `json:"recording_files,omitempty"`
		} `json:"object"`
	} `json:"payload"`
}

type zoomFile struct {
	FileType      string `json:"file_type,omitempty"`
	RecordingType string `json:"recording_type,omitempty"`
	DownloadURL   string `json:"download_url,omitempty"`
}

// Normalize parses a raw webhook body into a canonical event.
// A malformed body returns an invalid-payload error; the caller answers
// it as a client error, never retries it.
func (n *Normalizer) Normalize(body []byte) (*LifecycleEvent, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil || len(probe) == 0 {
		return nil, apperrors.ErrInvalidPayload()
	}

	digest := Digest(body)

	if _, ok := probe["payload"]; ok {
		return n.normalizeZoom(body, digest)
	}
	if _, ok := probe["event"]; ok {
		return n.normalizeRecallEvent(body, digest)
	}
	return n.normalizeRecallFlat(body, digest)
}

func (n *Normalizer) normalizeRecallEvent(body []byte, digest string) (*LifecycleEvent, error) {
	var env recallEventEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, apperrors.ErrInvalidPayload()
	}

	event := &LifecycleEvent{
		Kind:             classifyRecallEvent(env.Event),
		RawPayloadDigest: digest,
	}

	if bot := env.Data.Bot; bot != nil {
		event.ProviderBotID = bot.ID
		event.ExternalMeetingID = bot.MeetingCorrelationID()
		for i := range bot.Recordings {
			event.CandidateAudioURLs = append(event.CandidateAudioURLs, bot.Recordings[i].CandidateURLs()...)
		}
	}
	if rec := env.Data.Recording; rec != nil {
		event.ProviderRecordingID = rec.ID
		event.CandidateAudioURLs = append(event.CandidateAudioURLs, rec.CandidateURLs()...)
	}
	if event.Kind == KindBotFailed {
		event.ErrorDetail = strings.TrimSpace(env.Data.Data.Code + " " + env.Data.Data.SubCode)
	}

	if event.ProviderBotID == "" && event.ProviderRecordingID == "" && event.ExternalMeetingID == "" {
		return nil, apperrors.ErrInvalidPayload()
	}
	return event, nil
}

func (n *Normalizer) normalizeRecallFlat(body []byte, digest string) (*LifecycleEvent, error) {
	var env recallFlatEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, apperrors.ErrInvalidPayload()
	}

	botID := env.BotID
	if botID == "" {
		botID = env.ID
	}
	if botID == "" {
		return nil, apperrors.ErrInvalidPayload()
	}

	event := &LifecycleEvent{
		Kind:             classifyRecallStatus(env.Status),
		ProviderBotID:    botID,
		RawPayloadDigest: digest,
	}
	if env.Metadata != nil {
		event.ExternalMeetingID = env.Metadata["meeting_id"]
	}

	for i := range env.Recordings {
		rec := &env.Recordings[i]
		if event.ProviderRecordingID == "" && rec.ID != "" {
			event.ProviderRecordingID = rec.ID
		}
		event.CandidateAudioURLs = append(event.CandidateAudioURLs, rec.CandidateURLs()...)
	}

	// Top-level URL fallback, only after per-recording extraction
	for _, u := range []string{env.DownloadURL, env.AudioURL, env.URL} {
		if u != "" {
			event.CandidateAudioURLs = append(event.CandidateAudioURLs, u)
		}
	}

	return event, nil
}

func (n *Normalizer) normalizeZoom(body []byte, digest string) (*LifecycleEvent, error) {
	var env zoomEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, apperrors.ErrInvalidPayload()
	}

	object := env.Payload.Object
	externalID := object.ID.String()
	if externalID == "" || externalID == "0" {
		externalID = object.UUID
	}
	if externalID == "" {
		return nil, apperrors.ErrInvalidPayload()
	}

	event := &LifecycleEvent{
		Kind:              classifyZoomEvent(env.Event),
		ExternalMeetingID: externalID,
		RawPayloadDigest:  digest,
	}

	// Audio-only files first, then anything else with a link
	for _, f := range object.RecordingFiles {
		if f.DownloadURL == "" {
			continue
		}
		if strings.EqualFold(f.RecordingType, "audio_only") || strings.EqualFold(f.FileType, "M4A") {
			event.CandidateAudioURLs = append(event.CandidateAudioURLs, f.DownloadURL)
		}
	}
	for _, f := range object.RecordingFiles {
		if f.DownloadURL == "" {
			continue
		}
		if !strings.EqualFold(f.RecordingType, "audio_only") && !strings.EqualFold(f.FileType, "M4A") {
			event.CandidateAudioURLs = append(event.CandidateAudioURLs, f.DownloadURL)
		}
	}

	return event, nil
}

func classifyRecallEvent(event string) EventKind {
	switch event {
	case "bot.joining", "bot.in_waiting_room", "bot.in_call_not_recording", "bot.in_call_recording", "bot.recording_permission_allowed":
		return KindBotStarted
	case "bot.done", "bot.call_ended", "recording.done", "recording.completed", "bot.recording_ready":
		return KindRecordingCompleted
	case "bot.fatal", "bot.error", "bot.recording_permission_denied":
		return KindBotFailed
	}
	return KindAmbiguous
}

func classifyRecallStatus(status string) EventKind {
	switch status {
	case "joining_call", "in_waiting_room", "in_call_not_recording", "in_call_recording":
		return KindBotStarted
	case "done", "call_ended", "recording_done":
		return KindRecordingCompleted
	case "fatal", "error":
		return KindBotFailed
	}
	return KindAmbiguous
}

func classifyZoomEvent(event string) EventKind {
	switch event {
	case "recording.completed", "recording.stopped":
		return KindRecordingCompleted
	case "meeting.started":
		return KindBotStarted
	case "meeting.ended":
		return KindAmbiguous
	}
	return KindAmbiguous
}
