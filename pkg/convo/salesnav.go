package convo

import "strings"

// parseSalesNav handles Sales Navigator inbox copy-paste. The layout matches
// LinkedIn's closely enough to share the machinery, with two extra shapes:
// "Invited <name> to connect" system lines become messages of their own, and
// full "First Last" sender lines carry the clock on the same line.
func parseSalesNav(text string, opts Options) []Message {
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

	you := opts.TenantDisplayName
	if you == "" {
		you = "You"
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

		if m := invitedRe.FindStringSubmatch(line); m != nil {
			flush()
			sender = ""
			messages = append(messages, Message{
				Date:   formatDay(currentDay),
				Time:   "12:00 PM",
				Sender: you,
				Text:   "Invited " + strings.TrimSpace(m[1]) + " to connect",
			})
			continue
		}

		if m := youTimeRe.FindStringSubmatch(line); m != nil {
			flush()
			sender = you
			clock = formatClock(m[1], m[2], m[3])
			continue
		}

		if m := senderTimeRe.FindStringSubmatch(line); m != nil {
			flush()
			sender = strings.TrimSpace(m[1])
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
