package convo

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	monthDayRe = regexp.MustCompile(`^(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.?\s+(\d{1,2})(?:,?\s+(\d{4}))?$`)
	dayMonthRe = regexp.MustCompile(`^(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.?(?:,?\s+(\d{4}))?$`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

// parseDateHeader resolves a LinkedIn-style date header line to a calendar
// day. "Today"/"Yesterday" and bare weekday names resolve relative to ref;
// weekdays resolve to the most recent past occurrence. Month-day headers with
// no year default to ref's year.
func parseDateHeader(line string, ref time.Time) (time.Time, bool) {
	line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ":"))
	lower := strings.ToLower(line)

	switch lower {
	case "today":
		return ref, true
	case "yesterday":
		return ref.AddDate(0, 0, -1), true
	}

	if wd, ok := weekdays[lower]; ok {
		d := ref
		for i := 0; i < 7; i++ {
			d = d.AddDate(0, 0, -1)
			if d.Weekday() == wd {
				return d, true
			}
		}
		return ref, true
	}

	if m := monthDayRe.FindStringSubmatch(line); m != nil {
		return buildDate(m[1], m[2], m[3], ref), true
	}
	if m := dayMonthRe.FindStringSubmatch(line); m != nil {
		return buildDate(m[2], m[1], m[3], ref), true
	}

	return time.Time{}, false
}

func buildDate(monthName, dayStr, yearStr string, ref time.Time) time.Time {
	month := months[strings.ToLower(monthName[:3])]
	day, _ := strconv.Atoi(dayStr)
	year := ref.Year()
	if yearStr != "" {
		year, _ = strconv.Atoi(yearStr)
	}
	return time.Date(year, month, day, 0, 0, 0, 0, ref.Location())
}

// formatDay renders a day in the document's DD-MM-YY form.
func formatDay(t time.Time) string {
	return t.Format("02-01-06")
}

// formatClock normalizes an hour/minute/meridiem capture into "H:MM AM".
// A missing meridiem is inferred: LinkedIn omits it only for 24h locales, so
// hours above 12 wrap to PM.
func formatClock(hourStr, minuteStr, meridiem string) string {
	hour, _ := strconv.Atoi(hourStr)
	mer := strings.ToUpper(meridiem)
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
	return strconv.Itoa(hour) + ":" + minuteStr + " " + mer
}
