// Package meeting detects meeting note-taker notifications (Fathom, Otter,
// Fireflies, tl;dv, Grain) and extracts the contact, meeting link and rich
// content needed to file them against a lead.
package meeting

import (
	"regexp"
	"strings"
)

// Provider labels a recognized note-taker source.
type Provider string

const (
	ProviderFathom    Provider = "fathom"
	ProviderOtter     Provider = "otter"
	ProviderFireflies Provider = "fireflies"
	ProviderTldv      Provider = "tldv"
	ProviderGrain     Provider = "grain"
	ProviderGeneric   Provider = "generic"
)

type providerRule struct {
	provider      Provider
	senderDomains []string
	subjectMarks  []string
	bodyMarks     []string
}

var providerRules = []providerRule{
	{
		provider:      ProviderFathom,
		senderDomains: []string{"fathom.video", "fathom.ai"},
		subjectMarks:  []string{"recap of your meeting"},
		bodyMarks:     []string{"fathom.video"},
	},
	{
		provider:      ProviderOtter,
		senderDomains: []string{"otter.ai"},
		subjectMarks:  []string{"otter"},
		bodyMarks:     []string{"otter.ai"},
	},
	{
		provider:      ProviderFireflies,
		senderDomains: []string{"fireflies.ai"},
		subjectMarks:  []string{"fireflies"},
		bodyMarks:     []string{"fireflies.ai", "app.fireflies.ai"},
	},
	{
		provider:      ProviderTldv,
		senderDomains: []string{"tldv.io"},
		subjectMarks:  []string{"tl;dv", "tldv"},
		bodyMarks:     []string{"tldv.io"},
	},
	{
		provider:      ProviderGrain,
		senderDomains: []string{"grain.com", "grain.co"},
		subjectMarks:  []string{"grain"},
		bodyMarks:     []string{"grain.com"},
	},
}

var genericCallURLRe = regexp.MustCompile(`https?://[^\s<>"]+/(?:call/|meeting/|record|view)[^\s<>"]*`)

// Detect classifies a payload as a note-taker notification. Sender-domain
// matches win outright; otherwise subject and body content must agree. The
// generic catch-all needs a "meeting with"/"call with" subject plus a
// call-shaped URL in the body.
func Detect(sender, subject, body string) (Provider, bool) {
	senderLower := strings.ToLower(sender)
	subjectLower := strings.ToLower(subject)
	bodyLower := strings.ToLower(body)

	for _, rule := range providerRules {
		for _, domain := range rule.senderDomains {
			if strings.Contains(senderLower, "@"+domain) || strings.HasSuffix(senderLower, domain+">") {
				return rule.provider, true
			}
		}
	}

	for _, rule := range providerRules {
		subjectHit := false
		for _, mark := range rule.subjectMarks {
			if strings.Contains(subjectLower, mark) {
				subjectHit = true
				break
			}
		}
		if !subjectHit {
			continue
		}
		for _, mark := range rule.bodyMarks {
			if strings.Contains(bodyLower, mark) {
				return rule.provider, true
			}
		}
	}

	if strings.Contains(subjectLower, "meeting with") || strings.Contains(subjectLower, "call with") {
		if genericCallURLRe.MatchString(body) {
			return ProviderGeneric, true
		}
	}

	return "", false
}
