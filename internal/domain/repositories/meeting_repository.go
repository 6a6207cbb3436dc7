package repositories

import "github.com/johnquangdev/meeting-summarizer/internal/domain/entities"

// MeetingRepository defines persistence operations for meetings.
//
// Lookups return (nil, nil) when no row matches; callers decide whether
// a miss is an error. AdvanceStatus and MarkFailed are the write paths
// every status change goes through: both are guarded UPDATEs so that
// concurrent deliveries for the same meeting serialize on the database
// row and exactly one writer wins.
type MeetingRepository interface {
	Create(meeting *entities.Meeting) error
	GetByID(id int64) (*entities.Meeting, error)
	GetByExternalMeetingID(externalID string) (*entities.Meeting, error)
	GetByProviderBotID(botID string) (*entities.Meeting, error)
	GetByProviderRecordingID(recordingID string) (*entities.Meeting, error)
	List(limit, offset int) ([]*entities.Meeting, error)
	Delete(id int64) error

	// AdvanceStatus atomically moves the meeting from any of the given
	// source states to the target state. Returns false (no error) when
	// the meeting was not in a source state, which callers treat as
	// "someone else already advanced it".
	AdvanceStatus(id int64, from []entities.MeetingStatus, to entities.MeetingStatus) (bool, error)

	// MarkFailed records a failure state and message. Legal from every
	// state except completed; returns false when the meeting is
	// completed or gone.
	MarkFailed(id int64, status entities.MeetingStatus, reason string) (bool, error)

	// SetAudioLocation records where the meeting's audio lives. Exactly
	// one of url/filePath should be non-empty.
	SetAudioLocation(id int64, url, filePath string) error

	// SetCorrelation attaches provider identifiers learned after
	// creation (bot start, webhook). Empty strings leave the existing
	// value untouched.
	SetCorrelation(id int64, botID, recordingID string) error
}
