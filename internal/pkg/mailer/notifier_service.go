package mailer

import (
	"fmt"
	"strings"

	"lead-inbox-be/internal/entity"
	"lead-inbox-be/internal/pkg/refcode"

	"gopkg.in/gomail.v2"
)

// INotifierService sends the fixed-template failure notices. Every notice
// carries a 4-character correlation ref; send failures are the caller's to
// log and abandon, never to retry.
type INotifierService interface {
	SendTenantNotFound(toEmail, senderEmail string) (string, error)
	SendLeadNotFound(toEmail, attempted string) (string, error)
	SendLeadsNotFound(toEmail string, attempted []string) (string, error)
	SendMeetingAmbiguous(toEmail, contactName string, candidates []*entity.Lead) (string, error)
	SendMeetingError(toEmail, subject string) (string, error)
}

type notifierService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewNotifierService(host string, port int, username, password, senderEmail, senderName string) INotifierService {
	return &notifierService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *notifierService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

func (s *notifierService) SendTenantNotFound(toEmail, senderEmail string) (string, error) {
	ref := refcode.New()
	body := fmt.Sprintf(
		"Your message could not be processed because %s is not a recognized account address.\n\n"+
			"If you recently added a new sending address, ask support to register it.\n\n"+
			"Ref: %s\n", senderEmail, ref)
	return ref, s.send(toEmail, "Message not processed - sender not recognized", body)
}

func (s *notifierService) SendLeadNotFound(toEmail, attempted string) (string, error) {
	ref := refcode.New()
	body := fmt.Sprintf(
		"Your message was received but %s did not match a lead in your workspace.\n\n"+
			"Nothing was saved. Add the lead first, then resend or forward the thread.\n\n"+
			"Ref: %s\n", attempted, ref)
	return ref, s.send(toEmail, "Lead not found - nothing saved", body)
}

func (s *notifierService) SendLeadsNotFound(toEmail string, attempted []string) (string, error) {
	ref := refcode.New()
	var sb strings.Builder
	sb.WriteString("Your message was received but none of the recipients matched a lead in your workspace:\n\n")
	for _, a := range attempted {
		sb.WriteString("  - " + a + "\n")
	}
	sb.WriteString("\nNothing was saved. Add the lead first, then resend or forward the thread.\n")
	sb.WriteString("\nRef: " + ref + "\n")
	return ref, s.send(toEmail, "Lead not found - nothing saved", sb.String())
}

func (s *notifierService) SendMeetingAmbiguous(toEmail, contactName string, candidates []*entity.Lead) (string, error) {
	ref := refcode.New()
	var sb strings.Builder
	fmt.Fprintf(&sb, "A meeting recap for %q matched more than one lead, so nothing was saved:\n\n", contactName)
	for _, lead := range candidates {
		fmt.Fprintf(&sb, "  - %s", lead.FullName())
		if lead.Company != "" {
			fmt.Fprintf(&sb, " (%s)", lead.Company)
		}
		if lead.Email != "" {
			fmt.Fprintf(&sb, " <%s>", lead.Email)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nForward the recap again with the lead's email address in the subject to disambiguate.\n")
	sb.WriteString("\nRef: " + ref + "\n")
	return ref, s.send(toEmail, fmt.Sprintf("Multiple leads named %s - nothing saved", contactName), sb.String())
}

func (s *notifierService) SendMeetingError(toEmail, subject string) (string, error) {
	ref := refcode.New()
	body := fmt.Sprintf(
		"A meeting notification (%q) could not be filed against a lead.\n\n"+
			"No contact name, email or company could be extracted from it.\n\n"+
			"Ref: %s\n", subject, ref)
	return ref, s.send(toEmail, "Meeting recap not filed", body)
}
