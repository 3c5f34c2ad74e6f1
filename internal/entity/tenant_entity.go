package entity

import "strings"

// Tenant is an operator account from the external registry. The sender of an
// inbound payload must match one of its addresses for processing to start.
type Tenant struct {
	Id               string
	PrimaryEmail     string
	AlternateEmails  []string
	NotesBaseId      string
	DisplayFirstName string
	IanaTimezone     string
	MeetingApiKey    string
}

// OwnsEmail reports whether email belongs to this tenant.
func (t *Tenant) OwnsEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	if strings.EqualFold(t.PrimaryEmail, email) {
		return true
	}
	for _, alt := range t.AlternateEmails {
		if strings.EqualFold(alt, email) {
			return true
		}
	}
	return false
}
