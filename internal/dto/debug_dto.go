package dto

type DryRunRequest struct {
	TenantEmail string `json:"tenant_email" validate:"required,email"`
	Subject     string `json:"subject"`
	BodyPlain   string `json:"body_plain" validate:"required"`
	BodyHTML    string `json:"body_html"`
	To          string `json:"to"`
	Cc          string `json:"cc"`
}

type DryRunResponse struct {
	Kind       string       `json:"kind"`
	Recipients []string     `json:"recipients"`
	Leads      []LeadResult `json:"leads"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Rowstore bool   `json:"rowstore"`
	Mailer   bool   `json:"mailer"`
	Database bool   `json:"database"`
}

type TestNoticeResponse struct {
	RefCode string `json:"ref_code"`
}
