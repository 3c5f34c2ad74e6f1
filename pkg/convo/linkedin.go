package convo

import (
	"regexp"
	"strings"
	"unicode"
)

// Noise the LinkedIn message view injects around the actual conversation.
var noiseRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^view .*(’s|'s) profile`),
	regexp.MustCompile(`(?i)^view profile$`),
	regexp.MustCompile(`^\((He/Him|She/Her|They/Them)\)$`),
	regexp.MustCompile(`(?i)\b1st degree\b`),
	regexp.MustCompile(`^•?\s*1st$`),
	regexp.MustCompile(`(?i)^remove reaction`),
	regexp.MustCompile(`(?i)sent the following message`),
	regexp.MustCompile(`(?i)^status is (reachable|offline|online)`),
	regexp.MustCompile(`(?i)^open the options list`),
	// Link-preview domain fragments render as a bare domain line.
	regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*\.[a-z]{2,}$`),
}

func isNoiseLine(line string) bool {
	for _, re := range noiseRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// isEmojiOnly reports whether a message body is nothing but emoji and
// whitespace (reactions echoed into the transcript).
func isEmojiOnly(text string) bool {
	sawEmoji := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
		case r >= 0x1F000, // pictographs, emoticons
			r >= 0x2600 && r <= 0x27BF, // misc symbols, dingbats
			r == 0xFE0F, r == 0x200D:   // variation selector, ZWJ
			sawEmoji = true
		default:
			return false
		}
	}
	return sawEmoji
}

// parseLinkedIn walks the LinkedIn conversation view line by line: date
// headers move the day cursor, sender+time lines open a new message, and
// everything else accumulates as the current message body.
func parseLinkedIn(text string, opts Options) []Message {
	var (
		messages   []Message
		currentDay = opts.ReferenceDate
		sender     string
		clock      string
		body       []string
	)

	flush := func() {
		if sender == "" {
			body = nil
			return
		}
		msg := strings.TrimSpace(strings.Join(body, "\n"))
		body = nil
		if msg == "" || isEmojiOnly(msg) {
			return
		}
		messages = append(messages, Message{
			Date:   formatDay(currentDay),
			Time:   clock,
			Sender: sender,
			Text:   msg,
		})
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isNoiseLine(line) {
			continue
		}

		if day, ok := parseDateHeader(line, opts.ReferenceDate); ok {
			flush()
			sender = ""
			currentDay = day
			continue
		}

		if m := youTimeRe.FindStringSubmatch(line); m != nil {
			flush()
			sender = opts.TenantDisplayName
			if sender == "" {
				sender = "You"
			}
			clock = formatClock(m[1], m[2], m[3])
			continue
		}

		if m := senderTimeRe.FindStringSubmatch(line); m != nil {
			flush()
			sender = strings.TrimSpace(m[1])
			if sender == "You" && opts.TenantDisplayName != "" {
				sender = opts.TenantDisplayName
			}
			clock = formatClock(m[2], m[3], m[4])
			continue
		}

		if sender != "" {
			body = append(body, line)
		}
	}
	flush()

	return messages
}
