package entities

import (
	"time"
)

// MeetingStatus is the canonical stage of a meeting's pipeline.
// Persisted as plain varchar so new failure states never need a migration.
type MeetingStatus string

const (
	MeetingStatusPending            MeetingStatus = "pending"             // Created, bot not yet in the call
	MeetingStatusRecording          MeetingStatus = "recording"           // Bot joined, capture in progress
	MeetingStatusRecordingCompleted MeetingStatus = "recording_completed" // Capture done, audio may or may not be resolved
	MeetingStatusTranscribing       MeetingStatus = "transcribing"        // Download + speech-to-text in flight
	MeetingStatusTranscribed        MeetingStatus = "transcribed"         // Transcript persisted
	MeetingStatusSummarizing        MeetingStatus = "summarizing"         // LLM summarization in flight
	MeetingStatusCompleted          MeetingStatus = "completed"           // Summary persisted, terminal

	// Streaming variant: entered instead of recording.
	MeetingStatusStreaming      MeetingStatus = "streaming"
	MeetingStatusStreamingEnded MeetingStatus = "streaming_ended"

	// Failure states, reachable from their respective in-flight state.
	// Terminal until an external actor retries the stage.
	MeetingStatusBotFailed           MeetingStatus = "bot_failed"
	MeetingStatusTranscriptionFailed MeetingStatus = "transcription_failed"
	MeetingStatusSummarizationFailed MeetingStatus = "summarization_failed"
)

// Meeting is the root aggregate. Transcript, Summary and Participant rows
// belong to exactly one meeting and go away with it.
type Meeting struct {
	ID    int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Title string `json:"title" gorm:"type:varchar(255);not null"`
	URL   string `json:"url" gorm:"type:text"`

	// External correlation keys. At most one is authoritative at a time;
	// ExternalMeetingID is the id we hand to the provider at bot start and
	// expect echoed back in webhooks.
	ProviderBotID       *string `json:"provider_bot_id,omitempty" gorm:"type:varchar(255);index"`
	ProviderRecordingID *string `json:"provider_recording_id,omitempty" gorm:"type:varchar(255);index"`
	ExternalMeetingID   *string `json:"external_meeting_id,omitempty" gorm:"type:varchar(255);uniqueIndex"`

	Status MeetingStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`

	// Audio readiness. AudioFilePath (object key in storage) takes
	// precedence over AudioURL once the download has materialized;
	// AudioURL alone must be treated as potentially expired.
	AudioURL      *string `json:"audio_url,omitempty" gorm:"type:text"`
	AudioFilePath *string `json:"audio_file_path,omitempty" gorm:"type:text"`

	LastError *string `json:"last_error,omitempty" gorm:"type:text"`

	// Transition timestamps
	RecordingStartedAt   *time.Time `json:"recording_started_at,omitempty" gorm:"type:timestamp"`
	RecordingCompletedAt *time.Time `json:"recording_completed_at,omitempty" gorm:"type:timestamp"`
	TranscribedAt        *time.Time `json:"transcribed_at,omitempty" gorm:"type:timestamp"`
	CompletedAt          *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Participants []Participant `json:"participants,omitempty" gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE"`
}

// NewMeeting creates a meeting in pending state
func NewMeeting(title, url string) *Meeting {
	return &Meeting{
		Title:  title,
		URL:    url,
		Status: MeetingStatusPending,
	}
}

// HasAudio reports whether an audio location (local or remote) is known
func (m *Meeting) HasAudio() bool {
	return (m.AudioFilePath != nil && *m.AudioFilePath != "") ||
		(m.AudioURL != nil && *m.AudioURL != "")
}

// IsTerminal reports whether the meeting accepts no further lifecycle events
func (m *Meeting) IsTerminal() bool {
	return m.Status == MeetingStatusCompleted
}

// IsFailed reports whether the meeting sits in a failure state
func (m *Meeting) IsFailed() bool {
	switch m.Status {
	case MeetingStatusBotFailed, MeetingStatusTranscriptionFailed, MeetingStatusSummarizationFailed:
		return true
	}
	return false
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}
