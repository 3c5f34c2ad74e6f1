package implementation

import (
	"context"

	"lead-inbox-be/internal/entity"
	"lead-inbox-be/internal/repository/contract"
	"lead-inbox-be/pkg/rowstore"
)

const tenantsTable = "Tenants"

type TenantDirectoryImpl struct {
	client *rowstore.Client
	baseId string
}

func NewTenantDirectory(client *rowstore.Client, registryBaseId string) contract.TenantDirectory {
	return &TenantDirectoryImpl{
		client: client,
		baseId: registryBaseId,
	}
}

func (d *TenantDirectoryImpl) List(ctx context.Context) ([]*entity.Tenant, error) {
	records, err := d.client.List(ctx, d.baseId, tenantsTable, rowstore.ListOptions{})
	if err != nil {
		return nil, err
	}

	tenants := make([]*entity.Tenant, 0, len(records))
	for _, rec := range records {
		tenant := &entity.Tenant{
			Id:               rec.ID,
			PrimaryEmail:     rec.StringField("Email"),
			AlternateEmails:  rec.StringSliceField("Alternate Emails"),
			NotesBaseId:      rec.StringField("Notes Base ID"),
			DisplayFirstName: rec.StringField("First Name"),
			IanaTimezone:     rec.StringField("Timezone"),
			MeetingApiKey:    rec.StringField("Meeting API Key"),
		}
		if tenant.PrimaryEmail == "" || tenant.NotesBaseId == "" {
			continue // unprovisioned registry row
		}
		tenants = append(tenants, tenant)
	}
	return tenants, nil
}

func (d *TenantDirectoryImpl) Invalidate() {}
