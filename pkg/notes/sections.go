package notes

import "strings"

// SectionKey identifies one of the fixed regions of a lead's notes document.
type SectionKey string

const (
	SectionLinkedIn SectionKey = "linkedin"
	SectionManual   SectionKey = "manual"
	SectionSalesNav SectionKey = "salesnav"
	SectionEmail    SectionKey = "email"
	SectionMeeting  SectionKey = "meeting"
)

const (
	headerLinkedIn = "=== LINKEDIN MESSAGES ==="
	headerManual   = "=== MANUAL NOTES ==="
	headerSalesNav = "=== SALES NAVIGATOR ==="
	headerEmail    = "=== EMAIL CORRESPONDENCE ==="
	headerMeeting  = "=== MEETING NOTES ==="

	// LegacySeparator fences off pre-existing free text. Everything after it is
	// opaque and preserved byte-for-byte.
	LegacySeparator = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

	tagsPrefix = "Tags: "
)

// sectionOrder fixes the emit order regardless of write order.
var sectionOrder = []SectionKey{
	SectionLinkedIn,
	SectionManual,
	SectionSalesNav,
	SectionEmail,
	SectionMeeting,
}

var sectionHeaders = map[SectionKey]string{
	SectionLinkedIn: headerLinkedIn,
	SectionManual:   headerManual,
	SectionSalesNav: headerSalesNav,
	SectionEmail:    headerEmail,
	SectionMeeting:  headerMeeting,
}

var headerKeys = map[string]SectionKey{
	headerLinkedIn: SectionLinkedIn,
	headerManual:   SectionManual,
	headerSalesNav: SectionSalesNav,
	headerEmail:    SectionEmail,
	headerMeeting:  SectionMeeting,
}

// Document is the parsed form of a sectioned notes document.
type Document struct {
	Tags     []string
	LinkedIn string
	Manual   string
	SalesNav string
	Email    string
	Meeting  string
	Legacy   string
}

// Section returns the body of the given section. Unknown keys return "".
func (d *Document) Section(key SectionKey) string {
	switch key {
	case SectionLinkedIn:
		return d.LinkedIn
	case SectionManual:
		return d.Manual
	case SectionSalesNav:
		return d.SalesNav
	case SectionEmail:
		return d.Email
	case SectionMeeting:
		return d.Meeting
	}
	return ""
}

// SetSection replaces the body of the given section.
func (d *Document) SetSection(key SectionKey, body string) {
	switch key {
	case SectionLinkedIn:
		d.LinkedIn = body
	case SectionManual:
		d.Manual = body
	case SectionSalesNav:
		d.SalesNav = body
	case SectionEmail:
		d.Email = body
	case SectionMeeting:
		d.Meeting = body
	}
}

// IsValidSection reports whether key names one of the fixed sections.
func IsValidSection(key SectionKey) bool {
	_, ok := sectionHeaders[key]
	return ok
}

// Parse splits a raw notes string into its tags, sections and legacy body.
// It never fails: a missing part parses to the empty string, and any text the
// grammar does not claim (leading free text, text after the legacy separator)
// lands in Legacy.
func Parse(raw string) *Document {
	doc := &Document{Tags: []string{}}
	if raw == "" {
		return doc
	}

	body := raw
	if idx := findLegacySeparator(body); idx >= 0 {
		after := body[idx+len(LegacySeparator):]
		doc.Legacy = strings.TrimPrefix(after, "\n")
		body = body[:idx]
	}

	lines := strings.Split(body, "\n")
	var (
		current  SectionKey
		inBody   bool
		buffers  = map[SectionKey][]string{}
		preamble []string
	)

	for i, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		if i == 0 && !inBody && strings.HasPrefix(trimmed, tagsPrefix) {
			doc.Tags = parseTagsLine(trimmed)
			continue
		}
		if key, ok := headerKeys[strings.TrimSpace(trimmed)]; ok {
			current = key
			inBody = true
			continue
		}
		if !inBody {
			preamble = append(preamble, trimmed)
			continue
		}
		buffers[current] = append(buffers[current], trimmed)
	}

	for key, buf := range buffers {
		doc.SetSection(key, strings.TrimSpace(strings.Join(buf, "\n")))
	}

	// Free text that precedes any header is pre-grammar content and is kept
	// with the legacy body rather than silently dropped.
	if pre := strings.TrimSpace(strings.Join(preamble, "\n")); pre != "" {
		if doc.Legacy == "" {
			doc.Legacy = pre
		} else {
			doc.Legacy = pre + "\n\n" + doc.Legacy
		}
	}

	return doc
}

// findLegacySeparator locates the separator when it stands on its own line.
func findLegacySeparator(s string) int {
	idx := strings.Index(s, LegacySeparator)
	for idx >= 0 {
		lineStart := idx == 0 || s[idx-1] == '\n'
		end := idx + len(LegacySeparator)
		lineEnd := end == len(s) || s[end] == '\n'
		if lineStart && lineEnd {
			return idx
		}
		next := strings.Index(s[idx+1:], LegacySeparator)
		if next < 0 {
			return -1
		}
		idx = idx + 1 + next
	}
	return -1
}

// Rebuild renders the canonical string form: tags line first (only when tags
// exist), sections in fixed order (only non-empty ones), then the legacy body.
// The separator is emitted only when there is both section content and a
// legacy body to fence apart.
func Rebuild(doc *Document) string {
	var sb strings.Builder

	if len(doc.Tags) > 0 {
		sb.WriteString(tagsPrefix)
		for i, tag := range doc.Tags {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString("#" + tag)
		}
		sb.WriteString("\n\n")
	}

	anySection := false
	for _, key := range sectionOrder {
		body := strings.TrimSpace(doc.Section(key))
		if body == "" {
			continue
		}
		anySection = true
		sb.WriteString(sectionHeaders[key])
		sb.WriteString("\n")
		sb.WriteString(body)
		sb.WriteString("\n\n")
	}

	if doc.Legacy != "" {
		if anySection {
			sb.WriteString(LegacySeparator)
			sb.WriteString("\n")
		}
		sb.WriteString(doc.Legacy)
		return sb.String()
	}

	return strings.TrimRight(sb.String(), "\n") + trailingNewlineIfNonEmpty(sb.Len())
}

func trailingNewlineIfNonEmpty(n int) string {
	if n > 0 {
		return "\n"
	}
	return ""
}

// GetSection extracts one section body from a raw notes string.
func GetSection(raw string, key SectionKey) string {
	return Parse(raw).Section(key)
}
