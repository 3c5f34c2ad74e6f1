// Package thread splits a Gmail-style quoted email body into per-reply
// fragments, attributing each to the sender named in its quote header.
package thread

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Fragment is one reply in a quoted thread: the new message or a quoted
// ancestor.
type Fragment struct {
	Date    string // DD-MM-YY
	Time    string // H:MM AM/PM
	Sender  string
	Email   string // quote-header address; empty on the outer fragment
	Message string
}

// Options anchors fragments whose headers are missing or malformed.
type Options struct {
	// OuterSender is the display name of the message's outer From.
	OuterSender string
	// ReferenceDate stamps the outer fragment and any fragment whose quote
	// header fails to parse (at 12:00 PM).
	ReferenceDate time.Time
	// OuterTime, when set, stamps the outer fragment instead of 12:00 PM.
	OuterTime string
}

// Gmail quote header:
//
//	On Thu, 4 Dec 2025 at 10:30, Agnes Caruso <agnes@acme.io> wrote:
//
// Weekday, comma placement and meridiem all vary between clients, and
// clients wrap the header across lines, so matching runs on a
// whitespace-normalized copy.
var quoteHeaderRe = regexp.MustCompile(
	`On (?:(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun)[a-z]*,?\s+)?(\d{1,2}) (Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* (\d{4}),? at (\d{1,2}):(\d{2})(?:\s*([APap][Mm]))?,? (.+?) <([^<>]+@[^<>]+)> wrote:`)

var months = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// Parse splits body into ordered fragments, newest (outer reply) first. The
// regex strategy runs first; if it finds no quote headers a line state
// machine takes over, so a malformed body still yields at least the outer
// reply.
func Parse(body string, opts Options) []Fragment {
	if opts.ReferenceDate.IsZero() {
		opts.ReferenceDate = time.Now()
	}

	fragments := parseByHeaders(body, opts)
	if len(fragments) == 0 {
		fragments = parseByLines(body, opts)
	}
	return fragments
}

// parseByHeaders is the primary strategy: quote headers delimit ancestor
// fragments, the text before the first header is the new reply.
func parseByHeaders(body string, opts Options) []Fragment {
	normalized := normalizeWrappedHeaders(body)
	locs := quoteHeaderRe.FindAllStringSubmatchIndex(normalized, -1)
	if len(locs) == 0 {
		return nil
	}

	var fragments []Fragment

	outer := cleanFragmentBody(normalized[:locs[0][0]])
	if outer != "" {
		fragments = append(fragments, Fragment{
			Date:    opts.ReferenceDate.Format("02-01-06"),
			Time:    outerTime(opts),
			Sender:  opts.OuterSender,
			Message: outer,
		})
	}

	for i, loc := range locs {
		m := quoteHeaderRe.FindStringSubmatch(normalized[loc[0]:loc[1]])
		end := len(normalized)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		text := cleanFragmentBody(normalized[loc[1]:end])
		if text == "" {
			continue
		}
		date, clock := headerTimestamp(m, opts.ReferenceDate)
		fragments = append(fragments, Fragment{
			Date:    date,
			Time:    clock,
			Sender:  strings.TrimSpace(m[7]),
			Email:   strings.ToLower(strings.TrimSpace(m[8])),
			Message: text,
		})
	}

	return fragments
}

// parseByLines is the fallback: a single pass that treats any header-looking
// line as a fragment boundary and accumulates everything else.
func parseByLines(body string, opts Options) []Fragment {
	var fragments []Fragment
	var buf []string

	sender := opts.OuterSender
	email := ""
	date := opts.ReferenceDate.Format("02-01-06")
	clock := outerTime(opts)

	flush := func() {
		text := cleanFragmentBody(strings.Join(buf, "\n"))
		buf = nil
		if text == "" {
			return
		}
		fragments = append(fragments, Fragment{Date: date, Time: clock, Sender: sender, Email: email, Message: text})
	}

	for _, line := range strings.Split(body, "\n") {
		if m := quoteHeaderRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			flush()
			sender = strings.TrimSpace(m[7])
			email = strings.ToLower(strings.TrimSpace(m[8]))
			date, clock = headerTimestamp(m, opts.ReferenceDate)
			continue
		}
		buf = append(buf, line)
	}
	flush()

	return fragments
}

// SenderName returns the display name a quote header attributes to email, so
// a bare To: address can still be matched by name.
func SenderName(body, email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	for _, m := range quoteHeaderRe.FindAllStringSubmatch(normalizeWrappedHeaders(body), -1) {
		if strings.ToLower(strings.TrimSpace(m[8])) == email {
			return strings.TrimSpace(m[7])
		}
	}
	return ""
}

func outerTime(opts Options) string {
	if opts.OuterTime != "" {
		return opts.OuterTime
	}
	return "12:00 PM"
}

// headerTimestamp converts quote-header captures to document date/time. A
// header that fails to parse falls back to the reference date at noon.
func headerTimestamp(m []string, ref time.Time) (string, string) {
	day, err1 := strconv.Atoi(m[1])
	year, err2 := strconv.Atoi(m[3])
	month, okMonth := months[m[2]]
	if err1 != nil || err2 != nil || !okMonth || day < 1 || day > 31 {
		return ref.Format("02-01-06"), "12:00 PM"
	}

	hour, _ := strconv.Atoi(m[4])
	minute := m[5]
	mer := strings.ToUpper(m[6])
	if mer == "" {
		mer = "AM"
		if hour >= 12 {
			mer = "PM"
		}
	}
	if hour > 12 {
		hour -= 12
	}
	if hour == 0 {
		hour = 12
		mer = "AM"
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format("02-01-06"),
		strconv.Itoa(hour) + ":" + minute + " " + mer
}

// normalizeWrappedHeaders rejoins quote headers that the sending client
// hard-wrapped, without flattening the rest of the body.
func normalizeWrappedHeaders(body string) string {
	lines := strings.Split(body, "\n")
	var out []string
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "On ") && !strings.Contains(trimmed, "wrote:") {
			// Pull following lines up until the header closes (bounded; a
			// header never wraps across more than a few lines).
			joined := trimmed
			j := i + 1
			for j < len(lines) && j <= i+3 {
				joined += " " + strings.TrimSpace(lines[j])
				j++
				if strings.Contains(joined, "wrote:") {
					break
				}
			}
			if strings.Contains(joined, "wrote:") && quoteHeaderRe.MatchString(joined) {
				out = append(out, joined)
				i = j - 1
				continue
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

var signoffRe = regexp.MustCompile(`(?i)^(best regards|kind regards|warm regards|regards|best|thanks|thank you|cheers|sincerely|talk soon)[,.!]?$`)

// cleanFragmentBody strips quote markers and trailing signature blocks.
func cleanFragmentBody(text string) string {
	lines := strings.Split(text, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		for strings.HasPrefix(line, ">") {
			line = strings.TrimPrefix(line, ">")
			line = strings.TrimPrefix(line, " ")
		}
		if strings.TrimSpace(line) == "--" {
			break
		}
		kept = append(kept, line)
	}

	// A sign-off keyword followed only by a name line closes the message.
	for i := len(kept) - 1; i >= 0 && i >= len(kept)-3; i-- {
		if signoffRe.MatchString(strings.TrimSpace(kept[i])) {
			kept = kept[:i]
			break
		}
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}
