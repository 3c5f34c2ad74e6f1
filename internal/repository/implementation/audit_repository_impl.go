package implementation

import (
	"context"

	"lead-inbox-be/internal/model"
	"lead-inbox-be/internal/repository/contract"

	"gorm.io/gorm"
)

type AuditRepositoryImpl struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) contract.AuditRepository {
	return &AuditRepositoryImpl{db: db}
}

func (r *AuditRepositoryImpl) Create(ctx context.Context, record *model.AuditRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

type TranscriptRepositoryImpl struct {
	db *gorm.DB
}

func NewTranscriptRepository(db *gorm.DB) contract.TranscriptRepository {
	return &TranscriptRepositoryImpl{db: db}
}

func (r *TranscriptRepositoryImpl) Create(ctx context.Context, transcript *model.MeetingTranscript) error {
	return r.db.WithContext(ctx).Create(transcript).Error
}

func (r *TranscriptRepositoryImpl) ExistsByBaseLink(ctx context.Context, tenantId, baseLink string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.MeetingTranscript{}).
		Where("tenant_id = ? AND base_link = ?", tenantId, baseLink).
		Count(&count).Error
	return count > 0, err
}
