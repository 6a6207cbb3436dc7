package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Summary is the LLM artifact for a meeting. Same ownership rule as
// Transcript: at most one live row, overwritten on re-run.
type Summary struct {
	ID          int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	MeetingID   int64          `json:"meeting_id" gorm:"not null;uniqueIndex"`
	Text        string         `json:"text" gorm:"type:text;not null"`
	ActionItems datatypes.JSON `json:"action_items,omitempty" gorm:"type:jsonb"`
	Decisions   datatypes.JSON `json:"decisions,omitempty" gorm:"type:jsonb"`
	Model       string         `json:"model" gorm:"type:varchar(128)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Summary) TableName() string {
	return "summaries"
}
