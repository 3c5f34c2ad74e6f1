package contract

import (
	"context"

	"lead-inbox-be/internal/entity"
)

// TenantDirectory lists the operator accounts from the external registry.
type TenantDirectory interface {
	List(ctx context.Context) ([]*entity.Tenant, error)
	// Invalidate drops any cached snapshot. Uncached implementations no-op.
	Invalidate()
}
