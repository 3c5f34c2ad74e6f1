package contract

import (
	"context"

	"lead-inbox-be/internal/entity"
)

// LeadRepository is the per-tenant lead CRUD surface of the external row
// store. Every call is scoped by the tenant, whose NotesBaseId selects the
// right table.
type LeadRepository interface {
	FindByEmail(ctx context.Context, tenant *entity.Tenant, email string) (*entity.Lead, error)
	FindAll(ctx context.Context, tenant *entity.Tenant) ([]*entity.Lead, error)
	Get(ctx context.Context, tenant *entity.Tenant, id string) (*entity.Lead, error)
	Update(ctx context.Context, tenant *entity.Tenant, lead *entity.Lead) error
}
