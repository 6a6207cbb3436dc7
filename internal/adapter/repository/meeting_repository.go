package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// MeetingRepository handles meeting data operations
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create persists a new meeting
func (r *MeetingRepository) Create(meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.Create(meeting).Error
}

// GetByID retrieves a meeting by internal id
func (r *MeetingRepository) GetByID(id int64) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.Preload("Participants").Where("id = ?", id).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// GetByExternalMeetingID retrieves a meeting by the correlation id we
// handed to the provider at bot start
func (r *MeetingRepository) GetByExternalMeetingID(externalID string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.Where("external_meeting_id = ?", externalID).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// GetByProviderBotID retrieves a meeting by provider bot id
func (r *MeetingRepository) GetByProviderBotID(botID string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.Where("provider_bot_id = ?", botID).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// GetByProviderRecordingID retrieves a meeting by provider recording id
func (r *MeetingRepository) GetByProviderRecordingID(recordingID string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.Where("provider_recording_id = ?", recordingID).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// List retrieves meetings newest first
func (r *MeetingRepository) List(limit, offset int) ([]*entities.Meeting, error) {
	if limit == 0 {
		limit = 50
	}
	var meetings []*entities.Meeting
	if err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

// Delete removes a meeting and its owned artifacts
func (r *MeetingRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", id).Delete(&entities.Transcript{}).Error; err != nil {
			return err
		}
		if err := tx.Where("meeting_id = ?", id).Delete(&entities.Summary{}).Error; err != nil {
			return err
		}
		if err := tx.Where("meeting_id = ?", id).Delete(&entities.Participant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Meeting{}, id).Error
	})
}

// AdvanceStatus atomically claims the transition from one of the source
// states to the target state. RowsAffected == 0 means another writer got
// there first (or the meeting is gone) and the caller must not dispatch.
func (r *MeetingRepository) AdvanceStatus(id int64, from []entities.MeetingStatus, to entities.MeetingStatus) (bool, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": now,
	}
	switch to {
	case entities.MeetingStatusRecording, entities.MeetingStatusStreaming:
		updates["recording_started_at"] = now
	case entities.MeetingStatusRecordingCompleted, entities.MeetingStatusStreamingEnded:
		updates["recording_completed_at"] = now
	case entities.MeetingStatusTranscribed:
		updates["transcribed_at"] = now
	case entities.MeetingStatusCompleted:
		updates["completed_at"] = now
	}

	result := r.db.
		Model(&entities.Meeting{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkFailed records a failure state. Guarded so a completed meeting is
// never pulled back into a failure state.
func (r *MeetingRepository) MarkFailed(id int64, status entities.MeetingStatus, reason string) (bool, error) {
	result := r.db.
		Model(&entities.Meeting{}).
		Where("id = ? AND status <> ?", id, entities.MeetingStatusCompleted).
		Updates(map[string]interface{}{
			"status":     status,
			"last_error": reason,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetAudioLocation records the audio location. A local file path clears
// the URL because the materialized object takes precedence from then on.
func (r *MeetingRepository) SetAudioLocation(id int64, url, filePath string) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if filePath != "" {
		updates["audio_file_path"] = filePath
		updates["audio_url"] = nil
	} else if url != "" {
		updates["audio_url"] = url
	}
	return r.db.
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// SetCorrelation attaches provider identifiers; empty values are kept as-is
func (r *MeetingRepository) SetCorrelation(id int64, botID, recordingID string) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if botID != "" {
		updates["provider_bot_id"] = botID
	}
	if recordingID != "" {
		updates["provider_recording_id"] = recordingID
	}
	return r.db.
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(updates).Error
}
