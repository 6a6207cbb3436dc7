package repositories

import "github.com/johnquangdev/meeting-summarizer/internal/domain/entities"

// TranscriptRepository defines persistence for transcription artifacts.
// Save is an upsert keyed by meeting id: re-running transcription
// overwrites, it never duplicates.
type TranscriptRepository interface {
	Save(t *entities.Transcript) error
	GetByMeetingID(meetingID int64) (*entities.Transcript, error)
}

// SummaryRepository defines persistence for summarization artifacts,
// with the same overwrite-by-meeting semantics as transcripts.
type SummaryRepository interface {
	Save(s *entities.Summary) error
	GetByMeetingID(meetingID int64) (*entities.Summary, error)
}

// ParticipantRepository defines persistence for followup recipients
type ParticipantRepository interface {
	SaveAll(participants []*entities.Participant) error
	ListByMeetingID(meetingID int64) ([]*entities.Participant, error)
}
