package notes

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Message-line shapes the document carries:
//
//	04-12-25 10:30 AM - Guy - message text        (chat / email)
//	04-12-25: freehand manual note                (manual)
//	December 4, 2025 ...                          (meeting block title)
var (
	timedLineRe  = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{2}) (\d{1,2}):(\d{2}) ([AP]M) - `)
	manualLineRe = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{2}):`)
	monthLineRe  = regexp.MustCompile(`^(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.? (\d{1,2})(?:,? (\d{4}))?`)
)

var monthNumbers = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// messageEntry is one sortable unit of a merged section: a dated line plus any
// undated lines attached to it (a Subject: header above, wrapped body below).
type messageEntry struct {
	text string
	when time.Time
}

// lineTime extracts the sort key of a single line. Unparseable lines get the
// zero time so they collapse to the end of a newest-first sort.
func lineTime(line string) time.Time {
	if m := timedLineRe.FindStringSubmatch(line); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		hour, _ := strconv.Atoi(m[4])
		minute, _ := strconv.Atoi(m[5])
		hour = hour12To24(hour, m[6])
		if month < 1 || month > 12 {
			return time.Time{}
		}
		return time.Date(2000+year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	}
	if m := manualLineRe.FindStringSubmatch(line); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 {
			return time.Time{}
		}
		// Manual notes carry no clock; pin them to end of day so they follow
		// timed messages of the same day.
		return time.Date(2000+year, time.Month(month), day, 23, 59, 59, 0, time.UTC)
	}
	if m := monthLineRe.FindStringSubmatch(line); m != nil {
		month := monthNumbers[strings.ToLower(m[1][:3])]
		day, _ := strconv.Atoi(m[2])
		year := time.Now().Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}

func hour12To24(hour int, meridiem string) int {
	if meridiem == "PM" && hour != 12 {
		return hour + 12
	}
	if meridiem == "AM" && hour == 12 {
		return 0
	}
	return hour
}

// splitEntries groups a section body into dated entries. Undated lines that
// precede the first dated line (e.g. "Subject: ...") attach to the entry that
// follows; undated lines after a dated line attach to it as continuations.
func splitEntries(body string) []messageEntry {
	lines := strings.Split(body, "\n")
	var entries []messageEntry
	var pending []string

	flush := func(when time.Time) {
		for len(pending) > 0 && strings.TrimSpace(pending[len(pending)-1]) == "" {
			pending = pending[:len(pending)-1]
		}
		if len(pending) == 0 {
			return
		}
		entries = append(entries, messageEntry{
			text: strings.Join(pending, "\n"),
			when: when,
		})
		pending = nil
	}

	var current time.Time
	started := false
	for _, line := range lines {
		ts := lineTime(line)
		if !ts.IsZero() {
			if started {
				flush(current)
			} else if len(pending) > 0 {
				// Header lines above the first dated line belong to it.
				pending = append(pending, line)
				current = ts
				started = true
				continue
			}
			current = ts
			started = true
			pending = append(pending, line)
			continue
		}
		if strings.TrimSpace(line) == "" && len(pending) == 0 {
			continue
		}
		pending = append(pending, line)
	}
	flush(current)
	return entries
}

// MergeAndSortMessages merges an incoming payload into an existing section
// body: entries are deduplicated by exact text equality and ordered
// newest-first. It reports whether the payload contributed anything new.
func MergeAndSortMessages(existing, payload string) (merged string, addedNew bool) {
	entries := splitEntries(strings.TrimSpace(existing))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[normalizeEntry(e.text)] = true
	}

	for _, e := range splitEntries(strings.TrimSpace(payload)) {
		key := normalizeEntry(e.text)
		if seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, e)
		addedNew = true
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].when.After(entries[j].when)
	})

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.text)
	}
	return strings.Join(parts, "\n"), addedNew
}

func normalizeEntry(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}

// countLines counts non-blank lines, the unit the audit layer reasons about.
func countLines(body string) int {
	n := 0
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
