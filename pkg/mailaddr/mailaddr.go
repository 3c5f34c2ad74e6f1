// Package mailaddr has the small address-handling helpers shared by the
// ingestion engine, the identity resolver and the meeting adapter.
package mailaddr

import (
	"net/mail"
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// publicMailDomains are consumer mail providers; domain-only identity
// resolution is disabled for them because a shared provider proves nothing.
var publicMailDomains = map[string]bool{
	"gmail.com":      true,
	"googlemail.com": true,
	"yahoo.com":      true,
	"hotmail.com":    true,
	"outlook.com":    true,
	"icloud.com":     true,
	"live.com":       true,
	"msn.com":        true,
	"aol.com":        true,
	"proton.me":      true,
	"protonmail.com": true,
	"mail.com":       true,
}

// IsPublicMailDomain reports whether domain belongs to a consumer provider.
func IsPublicMailDomain(domain string) bool {
	return publicMailDomains[strings.ToLower(strings.TrimSpace(domain))]
}

// Parse splits an RFC 5322 address into display name and lowercase email.
// Inputs that net/mail rejects fall back to a bare regex scan so a sloppy
// forwarded header still yields the address.
func Parse(raw string) (name, email string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}
	if addr, err := mail.ParseAddress(raw); err == nil {
		return strings.TrimSpace(addr.Name), strings.ToLower(addr.Address)
	}
	if m := emailRe.FindString(raw); m != "" {
		name = strings.TrimSpace(strings.Split(raw, "<")[0])
		name = strings.Trim(name, `"' `)
		return name, strings.ToLower(m)
	}
	return "", ""
}

// ParseList splits a comma-separated header value into addresses. net/mail
// handles quoted display names with embedded commas; the fallback split does
// not, which matches how sloppy forwarded headers degrade anyway.
func ParseList(raw string) []mail.Address {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if addrs, err := mail.ParseAddressList(raw); err == nil {
		out := make([]mail.Address, 0, len(addrs))
		for _, a := range addrs {
			out = append(out, mail.Address{Name: strings.TrimSpace(a.Name), Address: strings.ToLower(a.Address)})
		}
		return out
	}
	var out []mail.Address
	for _, part := range strings.Split(raw, ",") {
		if name, email := Parse(part); email != "" {
			out = append(out, mail.Address{Name: name, Address: email})
		}
	}
	return out
}

// Domain returns the part after "@", lowercased.
func Domain(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return strings.ToLower(email[i+1:])
	}
	return ""
}

// DomainStem returns the non-TLD portion of a domain ("acme.io" → "acme"),
// the token used for company-evidence narrowing.
func DomainStem(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if i := strings.Index(domain, "."); i > 0 {
		return domain[:i]
	}
	return domain
}

// FindEmail scans free text for the first email address.
func FindEmail(text string) string {
	return strings.ToLower(emailRe.FindString(text))
}
