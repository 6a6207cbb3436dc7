package repository

import (
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// ParticipantRepository handles participant data operations
type ParticipantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository creates a new participant repository
func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// SaveAll persists a batch of participants
func (r *ParticipantRepository) SaveAll(participants []*entities.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	return r.db.Create(&participants).Error
}

// ListByMeetingID retrieves all participants for a meeting
func (r *ParticipantRepository) ListByMeetingID(meetingID int64) ([]*entities.Participant, error) {
	var participants []*entities.Participant
	if err := r.db.
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}
