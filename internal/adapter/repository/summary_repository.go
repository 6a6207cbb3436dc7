package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// SummaryRepository handles summary data operations
type SummaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Save upserts the summary for a meeting
func (r *SummaryRepository) Save(s *entities.Summary) error {
	if s == nil {
		return errors.New("summary cannot be nil")
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "meeting_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"text", "action_items", "decisions", "model", "updated_at"}),
	}).Create(s).Error
}

// GetByMeetingID retrieves the live summary for a meeting
func (r *SummaryRepository) GetByMeetingID(meetingID int64) (*entities.Summary, error) {
	var summary entities.Summary
	if err := r.db.Where("meeting_id = ?", meetingID).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}
