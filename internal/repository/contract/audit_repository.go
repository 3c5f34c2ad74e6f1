package contract

import (
	"context"

	"lead-inbox-be/internal/model"
)

// AuditRepository persists notes-write audit rows in the operational store.
type AuditRepository interface {
	Create(ctx context.Context, record *model.AuditRecord) error
}

// TranscriptRepository persists raw meeting payloads as opaque state rows.
type TranscriptRepository interface {
	Create(ctx context.Context, transcript *model.MeetingTranscript) error
	ExistsByBaseLink(ctx context.Context, tenantId, baseLink string) (bool, error)
}
