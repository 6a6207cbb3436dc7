package entities

import "time"

// Participant is a followup-email recipient attached to a meeting
type Participant struct {
	ID        int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	MeetingID int64  `json:"meeting_id" gorm:"not null;index"`
	Name      string `json:"name" gorm:"type:varchar(255)"`
	Email     string `json:"email" gorm:"type:varchar(255);not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Participant) TableName() string {
	return "participants"
}
