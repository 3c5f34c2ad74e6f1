package model

import (
	"time"

	"github.com/google/uuid"
)

type AuditRecord struct {
	Id                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantId              string    `gorm:"type:varchar(32);index"`
	LeadId                string    `gorm:"type:varchar(32);index"`
	Source                string    `gorm:"type:varchar(20)"`
	BeforeLen             int
	AfterLen              int
	EmailSectionBefore    int
	EmailSectionAfter     int
	EmailBlockCountBefore int
	EmailBlockCountAfter  int
	ContentLoss           bool      `gorm:"index"`
	CreatedAt             time.Time `gorm:"default:now();not null;index"`
}

func (AuditRecord) TableName() string {
	return "audit_records"
}
