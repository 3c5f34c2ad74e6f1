package model

import (
	"time"

	"github.com/google/uuid"
)

// MeetingTranscript keeps the raw extracted meeting payload as an opaque
// state row, separate from the lead's notes document.
type MeetingTranscript struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantId  string    `gorm:"type:varchar(32);index"`
	LeadId    string    `gorm:"type:varchar(32);index"`
	Provider  string    `gorm:"type:varchar(20)"`
	BaseLink  string    `gorm:"type:text;index"`
	Payload   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"default:now();not null"`
}

func (MeetingTranscript) TableName() string {
	return "meeting_transcripts"
}
