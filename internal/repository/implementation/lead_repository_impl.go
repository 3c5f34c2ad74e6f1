package implementation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lead-inbox-be/internal/entity"
	"lead-inbox-be/internal/repository/contract"
	"lead-inbox-be/pkg/rowstore"
)

const (
	leadsTable      = "Leads"
	followUpDateFmt = "2006-01-02"
)

type LeadRepositoryImpl struct {
	client *rowstore.Client
}

func NewLeadRepository(client *rowstore.Client) contract.LeadRepository {
	return &LeadRepositoryImpl{client: client}
}

func (r *LeadRepositoryImpl) FindByEmail(ctx context.Context, tenant *entity.Tenant, email string) (*entity.Lead, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	filter := fmt.Sprintf(`LOWER({Email}) = %q`, email)
	records, err := r.client.List(ctx, tenant.NotesBaseId, leadsTable, rowstore.ListOptions{Filter: filter})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return toLead(records[0]), nil
}

func (r *LeadRepositoryImpl) FindAll(ctx context.Context, tenant *entity.Tenant) ([]*entity.Lead, error) {
	records, err := r.client.List(ctx, tenant.NotesBaseId, leadsTable, rowstore.ListOptions{})
	if err != nil {
		return nil, err
	}
	leads := make([]*entity.Lead, 0, len(records))
	for _, rec := range records {
		leads = append(leads, toLead(rec))
	}
	return leads, nil
}

func (r *LeadRepositoryImpl) Get(ctx context.Context, tenant *entity.Tenant, id string) (*entity.Lead, error) {
	filter := fmt.Sprintf(`RECORD_ID() = %q`, id)
	records, err := r.client.List(ctx, tenant.NotesBaseId, leadsTable, rowstore.ListOptions{Filter: filter})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("lead not found")
	}
	return toLead(records[0]), nil
}

func (r *LeadRepositoryImpl) Update(ctx context.Context, tenant *entity.Tenant, lead *entity.Lead) error {
	fields := map[string]any{
		"Notes": lead.Notes,
	}
	if lead.FollowUpDate != nil {
		fields["Follow Up Date"] = lead.FollowUpDate.Format(followUpDateFmt)
	}
	return r.client.Update(ctx, tenant.NotesBaseId, leadsTable, lead.Id, fields)
}

func toLead(rec rowstore.Record) *entity.Lead {
	lead := &entity.Lead{
		Id:          rec.ID,
		FirstName:   rec.StringField("First Name"),
		LastName:    rec.StringField("Last Name"),
		Email:       strings.ToLower(rec.StringField("Email")),
		Company:     rec.StringField("Company"),
		LinkedinUrl: rec.StringField("LinkedIn URL"),
		Notes:       rec.StringField("Notes"),
	}
	if raw := rec.StringField("Follow Up Date"); raw != "" {
		if t, err := time.Parse(followUpDateFmt, raw); err == nil {
			lead.FollowUpDate = &t
		}
	}
	return lead
}
