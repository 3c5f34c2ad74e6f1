package dto

import "lead-inbox-be/pkg/audit"

// AuditEventMessage is the payload published on the audit topic after every
// notes write.
type AuditEventMessage struct {
	TenantId string        `json:"tenant_id"`
	Record   *audit.Record `json:"record"`
}
