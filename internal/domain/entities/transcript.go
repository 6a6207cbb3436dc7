package entities

import (
	"time"

	"gorm.io/datatypes"
)

// TranscriptSegment is one timed chunk of recognized speech
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the speech-to-text artifact for a meeting. A meeting has
// at most one live transcript; re-running transcription overwrites it.
type Transcript struct {
	ID        int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	MeetingID int64          `json:"meeting_id" gorm:"not null;uniqueIndex"`
	Text      string         `json:"text" gorm:"type:text;not null"`
	Language  string         `json:"language" gorm:"type:varchar(16)"`
	Segments  datatypes.JSON `json:"segments,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}
