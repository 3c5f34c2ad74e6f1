package convo

import (
	"regexp"
	"strings"
	"time"
)

// Format labels the detected shape of a raw conversation paste.
type Format string

const (
	FormatPreformatted Format = "preformatted"
	FormatLinkedIn     Format = "linkedin_raw"
	FormatSalesNav     Format = "salesnav_raw"
	FormatMeeting      Format = "meeting"
	FormatManual       Format = "manual"
)

// Message is one normalized conversation message.
type Message struct {
	Date   string // DD-MM-YY
	Time   string // H:MM AM/PM
	Sender string
	Text   string
}

// Options steers parsing of a raw conversation.
type Options struct {
	// TenantDisplayName replaces the literal "You" sender.
	TenantDisplayName string
	// ReferenceDate anchors relative date headers (Today, weekday names).
	ReferenceDate time.Time
	// NewestFirst orders the formatted output newest message first.
	NewestFirst bool
}

// Result is the outcome of parsing a raw conversation.
type Result struct {
	Format       Format
	Messages     []Message
	Formatted    string
	MessageCount int
}

var (
	preformattedRe = regexp.MustCompile(`^\d{2}-\d{2}-\d{2} \d{1,2}:\d{2} [AP]M - .+ - `)
	senderTimeRe   = regexp.MustCompile(`^([A-Za-z][A-Za-z .'’-]*?)\s+(\d{1,2}):(\d{2})\s*([APap][Mm])?$`)
	youTimeRe      = regexp.MustCompile(`^You\s+(\d{1,2}):(\d{2})\s*([APap][Mm])?$`)
	invitedRe      = regexp.MustCompile(`^Invited\s+(.+?)\s+to connect`)
	salesNavNameRe = regexp.MustCompile(`^[A-Z][\w'’-]+ [A-Z][\w'’-]+\s+\d{1,2}:\d{2}\s*[APap][Mm]?$`)
)

// DetectFormat classifies a raw conversation paste. Checks run in order and
// the first match wins; anything unrecognized is stored verbatim as a manual
// note.
func DetectFormat(text string) Format {
	trimmed := strings.TrimSpace(text)
	if preformattedRe.MatchString(trimmed) {
		return FormatPreformatted
	}
	if strings.Contains(text, "sent the following message") {
		return FormatLinkedIn
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if youTimeRe.MatchString(line) || salesNavNameRe.MatchString(line) || invitedRe.MatchString(line) {
			return FormatSalesNav
		}
	}
	return FormatManual
}

// Parse detects the format of a raw conversation and normalizes it into
// dated messages. Manual content is passed through untouched.
func Parse(text string, opts Options) *Result {
	if opts.ReferenceDate.IsZero() {
		opts.ReferenceDate = time.Now()
	}

	format := DetectFormat(text)
	var messages []Message

	switch format {
	case FormatPreformatted:
		messages = parsePreformatted(text)
	case FormatLinkedIn:
		messages = parseLinkedIn(text, opts)
	case FormatSalesNav:
		messages = parseSalesNav(text, opts)
	default:
		return &Result{
			Format:       FormatManual,
			Messages:     nil,
			Formatted:    strings.TrimSpace(text),
			MessageCount: 0,
		}
	}

	ordered := messages
	if opts.NewestFirst {
		ordered = make([]Message, len(messages))
		for i, m := range messages {
			ordered[len(messages)-1-i] = m
		}
	}

	lines := make([]string, 0, len(ordered))
	for _, m := range ordered {
		lines = append(lines, FormatLine(m))
	}

	return &Result{
		Format:       format,
		Messages:     messages,
		Formatted:    strings.Join(lines, "\n"),
		MessageCount: len(messages),
	}
}

// FormatLine renders a message in the canonical document form.
func FormatLine(m Message) string {
	text := strings.Join(strings.Fields(strings.ReplaceAll(m.Text, "\n", " ")), " ")
	return m.Date + " " + m.Time + " - " + m.Sender + " - " + text
}

// parsePreformatted accepts content already in canonical line form.
func parsePreformatted(text string) []Message {
	var messages []Message
	lineRe := regexp.MustCompile(`^(\d{2}-\d{2}-\d{2}) (\d{1,2}:\d{2} [AP]M) - (.+?) - (.*)$`)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := lineRe.FindStringSubmatch(line); m != nil {
			messages = append(messages, Message{Date: m[1], Time: m[2], Sender: m[3], Text: m[4]})
		} else if len(messages) > 0 {
			// Wrapped continuation of the previous message.
			messages[len(messages)-1].Text += " " + line
		}
	}
	return messages
}
