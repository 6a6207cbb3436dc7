package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// TranscriptRepository handles transcript data operations
type TranscriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Save upserts the transcript for a meeting. Re-running transcription
// overwrites the previous row.
func (r *TranscriptRepository) Save(t *entities.Transcript) error {
	if t == nil {
		return errors.New("transcript cannot be nil")
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "meeting_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"text", "language", "segments", "updated_at"}),
	}).Create(t).Error
}

// GetByMeetingID retrieves the live transcript for a meeting
func (r *TranscriptRepository) GetByMeetingID(meetingID int64) (*entities.Transcript, error) {
	var transcript entities.Transcript
	if err := r.db.Where("meeting_id = ?", meetingID).First(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transcript, nil
}
