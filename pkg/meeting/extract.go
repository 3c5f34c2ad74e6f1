package meeting

import (
	"regexp"
	"strings"

	"lead-inbox-be/pkg/mailaddr"
)

// Details is everything the adapter could pull out of a note-taker
// notification.
type Details struct {
	Provider       Provider
	Title          string
	ContactName    string
	AlternateNames []string
	FirstNameOnly  string
	ContactEmail   string
	Company        string
	Domain         string
	MeetingLink    string
	Duration       string
	Date           string
	ActionItems    string
	Summary        string
}

var (
	subjectStripRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^recap of your meeting with\s+`),
		regexp.MustCompile(`(?i)^your meeting with\s+`),
		regexp.MustCompile(`(?i)^meeting with\s+`),
		regexp.MustCompile(`(?i)^call with\s+`),
	}
	durationTailRe = regexp.MustCompile(`(?i)\s*[-–]\s*\d+\s*mins?\s*$`)
	parenTailRe    = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

	durationRe  = regexp.MustCompile(`(?i)(\d+)\s*mins?\b`)
	longDateRe  = regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:,\s*\d{4})?`)
	slashDateRe = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`)

	companyWordRe = regexp.MustCompile(`(?i)\b(group|inc|ltd|llc|corp|co|solutions|tech|consulting|company)\b`)
	personNameRe  = regexp.MustCompile(`^[A-Z][\w'’-]+(?:\s+[A-Z][\w'’-]+){1,3}$`)

	// "FirstName LastName meeting" headings inside the body, including
	// two-person titles ("X and Y meeting").
	bodyNameRe = regexp.MustCompile(`(?m)^\s*([A-Z][\w'’-]+(?:\s+[A-Z][\w'’-]+){1,3})(?:\s+and\s+([A-Z][\w'’-]+(?:\s+[A-Z][\w'’-]+){1,3}))?\s+meeting\b`)

	meetingLinkRes = []*regexp.Regexp{
		regexp.MustCompile(`https?://fathom\.video/call/[^\s<>"]+`),
		regexp.MustCompile(`https?://(?:www\.)?otter\.ai/[^\s<>"]*(?:note|meeting|transcript)[^\s<>"]*`),
		regexp.MustCompile(`https?://app\.fireflies\.ai/view/[^\s<>"]+`),
		regexp.MustCompile(`https?://tldv\.io/app/meetings/[^\s<>"]+`),
		regexp.MustCompile(`https?://grain\.com/(?:share|recordings?)/[^\s<>"]+`),
		regexp.MustCompile(`https?://[^\s<>"]+/(?:call|meeting|meetings|record|recordings|view)/[^\s<>"]+`),
	}

	summarySubheadRe = regexp.MustCompile(`(?i)^(meeting purpose|key takeaways|topics|next steps)\s*:?\s*$`)
)

// Extract runs the full extraction pipeline on a detected payload. When the
// plain body lacks the summary markers but the HTML version has them, the
// HTML body (converted to structured text) takes over.
func Extract(provider Provider, subject, bodyPlain, bodyHTML string) *Details {
	body := bodyPlain
	if !hasSummaryMarkers(bodyPlain) && bodyHTML != "" {
		if converted := htmlToText(bodyHTML); hasSummaryMarkers(converted) {
			body = converted
		}
	}

	d := &Details{Provider: provider}

	title := cleanSubject(subject)
	d.Title = title
	classifySubjectRemainder(d, title)

	reconcileBodyNames(d, body)

	if d.ContactName == "" && d.Domain != "" {
		d.FirstNameOnly = firstNameAfterDomainMarker(body, d.Domain)
	}

	d.MeetingLink = findMeetingLink(body)
	if d.MeetingLink == "" && bodyHTML != "" {
		d.MeetingLink = findMeetingLink(bodyHTML)
	}

	if m := durationRe.FindStringSubmatch(subject + "\n" + body); m != nil {
		d.Duration = m[1] + " mins"
	}
	if m := longDateRe.FindString(body); m != "" {
		d.Date = m
	} else if m := slashDateRe.FindString(body); m != "" {
		d.Date = m
	}

	d.ActionItems = extractActionItems(body)
	d.Summary = extractSummary(body)

	if d.ContactName == "" {
		d.ContactName = firstNonClientAssignee(d.ActionItems)
	}

	return d
}

func hasSummaryMarkers(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "meeting purpose") ||
		strings.Contains(lower, "key takeaways") ||
		strings.Contains(lower, "meeting summary")
}

// cleanSubject collapses line breaks and strips the provider's framing
// ("Recap of your meeting with ...", trailing duration, parenthetical tails).
func cleanSubject(subject string) string {
	s := strings.Join(strings.Fields(strings.ReplaceAll(subject, "\r\n", " ")), " ")
	for _, re := range subjectStripRes {
		s = re.ReplaceAllString(s, "")
	}
	s = durationTailRe.ReplaceAllString(s, "")
	s = parenTailRe.ReplaceAllString(s, "")
	return strings.Trim(s, " -–—:,.")
}

// classifySubjectRemainder decides whether the text after "with" names a
// person, a company, or an email address.
func classifySubjectRemainder(d *Details, remainder string) {
	remainder = strings.TrimSpace(remainder)
	if remainder == "" {
		return
	}

	if email := mailaddr.FindEmail(remainder); email != "" {
		d.ContactEmail = email
		domain := mailaddr.Domain(email)
		if !mailaddr.IsPublicMailDomain(domain) {
			d.Domain = domain
			d.Company = mailaddr.DomainStem(domain)
		}
		return
	}

	if strings.Contains(remainder, ".") && !strings.Contains(remainder, " ") {
		// A bare domain in the subject.
		d.Domain = strings.ToLower(remainder)
		d.Company = mailaddr.DomainStem(remainder)
		return
	}

	if looksLikeCompany(remainder) {
		d.Company = remainder
		return
	}

	if personNameRe.MatchString(remainder) {
		d.ContactName = remainder
		return
	}

	// Single word, not obviously a company: treat as a first name.
	if !strings.Contains(remainder, " ") {
		d.FirstNameOnly = capitalize(remainder)
		return
	}

	d.Company = remainder
}

func looksLikeCompany(s string) bool {
	if companyWordRe.MatchString(s) {
		return true
	}
	// All-caps tokens read as an org name, not a person.
	letters := strings.ReplaceAll(s, " ", "")
	if letters != "" && letters == strings.ToUpper(letters) && len(letters) > 1 {
		return true
	}
	return false
}

// reconcileBodyNames scans the body for "FirstName LastName meeting"
// headings. A body name that extends or corrects the subject name (same last
// name) is promoted to ContactName; the subject name is kept as an alternate.
func reconcileBodyNames(d *Details, body string) {
	m := bodyNameRe.FindStringSubmatch(body)
	if m == nil {
		return
	}
	bodyName := strings.TrimSpace(m[1])
	if strings.EqualFold(bodyName, "Meeting") {
		return
	}

	if m[2] != "" {
		// Two-person title: keep both, first as primary.
		if d.ContactName != "" && !strings.EqualFold(d.ContactName, bodyName) {
			d.AlternateNames = append(d.AlternateNames, d.ContactName)
		}
		d.ContactName = bodyName
		d.AlternateNames = append(d.AlternateNames, strings.TrimSpace(m[2]))
		return
	}

	if d.ContactName == "" {
		d.ContactName = bodyName
		return
	}
	if strings.EqualFold(d.ContactName, bodyName) {
		return
	}
	if lastName(d.ContactName) != "" && strings.EqualFold(lastName(d.ContactName), lastName(bodyName)) {
		d.AlternateNames = append(d.AlternateNames, d.ContactName)
		d.ContactName = bodyName
		return
	}
	d.AlternateNames = append(d.AlternateNames, bodyName)
}

func capitalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func lastName(full string) string {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}

// firstNameAfterDomainMarker handles notifications titled by domain: the
// lines after the "Meeting with <domain>" marker often carry a lone
// capitalized first name.
func firstNameAfterDomainMarker(body, domain string) string {
	lines := strings.Split(body, "\n")
	marker := -1
	for i, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "meeting with") && strings.Contains(lower, strings.ToLower(domain)) {
			marker = i
			break
		}
	}
	if marker < 0 {
		return ""
	}
	for i := marker + 1; i < len(lines) && i <= marker+6; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if regexp.MustCompile(`^[A-Z][a-z'’-]+$`).MatchString(line) {
			return line
		}
	}
	return ""
}

// findMeetingLink walks the ordered provider-link patterns and returns the
// first real recording link, skipping homepage and campaign-tracking URLs.
func findMeetingLink(body string) string {
	for _, re := range meetingLinkRes {
		for _, link := range re.FindAllString(body, -1) {
			link = strings.TrimRight(link, ".,)>]")
			if strings.Contains(link, "utm_campaign") {
				continue
			}
			return link
		}
	}
	return ""
}

// BaseLink strips the query and fragment so two notifications for the same
// recording compare equal.
func BaseLink(link string) string {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	return strings.TrimRight(link, "/")
}
