package entity

import "time"

// Lead is a contact row in a tenant's lead table. The Notes field is the
// sectioned notes document this service owns.
type Lead struct {
	Id           string
	FirstName    string
	LastName     string
	Email        string
	Company      string
	LinkedinUrl  string
	Notes        string
	FollowUpDate *time.Time
}

// FullName joins the name columns for display.
func (l *Lead) FullName() string {
	switch {
	case l.FirstName == "":
		return l.LastName
	case l.LastName == "":
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}
