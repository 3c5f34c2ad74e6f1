package meeting

import (
	"regexp"
	"strings"
)

var (
	actionItemsHeadRe = regexp.MustCompile(`(?i)^\s*action items?\s*:?\s*$`)
	summaryHeadRe     = regexp.MustCompile(`(?i)^\s*meeting summary\s*:?\s*$`)
	sectionHeadRe     = regexp.MustCompile(`(?i)^\s*(action items?|meeting summary|meeting notes|transcript|attendees)\s*:?\s*$`)
	bulletRe          = regexp.MustCompile(`^\s*[-•*]\s*`)
	// Assignee lines trail their task: a bare title-case name of 2-4 tokens.
	assigneeLineRe = regexp.MustCompile(`^[A-Z][\w'’-]+(?:\s+[A-Z][\w'’-]+){1,3}$`)

	subheadRuler = "----------"
)

// extractActionItems carves out the ACTION ITEMS section and re-pairs each
// task with the assignee name on the following line, yielding
// "• task — assignee" bullets.
func extractActionItems(body string) string {
	lines := sectionLines(body, actionItemsHeadRe)
	if lines == nil {
		return ""
	}

	var items []string
	var task string

	flush := func(assignee string) {
		if task == "" {
			return
		}
		if assignee != "" {
			items = append(items, "• "+task+" — "+assignee)
		} else {
			items = append(items, "• "+task)
		}
		task = ""
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if bulletRe.MatchString(line) {
			flush("")
			task = strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
			continue
		}
		if task != "" && assigneeLineRe.MatchString(line) {
			flush(line)
			continue
		}
		if task != "" {
			task += " " + line
			continue
		}
		// Un-bulleted task line.
		task = line
	}
	flush("")

	return strings.Join(items, "\n")
}

// extractSummary carves out MEETING SUMMARY and reformats its subsection
// markers (Meeting Purpose, Key Takeaways, Topics, Next Steps) as ruled
// sub-headers.
func extractSummary(body string) string {
	lines := sectionLines(body, summaryHeadRe)
	if lines == nil {
		// Providers that skip the explicit header still emit the subsections.
		lines = subsectionOnlyLines(body)
	}
	if lines == nil {
		return ""
	}

	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
			continue
		}
		if m := summarySubheadRe.FindStringSubmatch(trimmed); m != nil {
			if len(out) > 0 {
				out = append(out, "")
			}
			out = append(out, strings.ToUpper(m[1]), subheadRuler)
			continue
		}
		out = append(out, trimmed)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// sectionLines returns the lines between a matching section header and the
// next section header (or end of body); nil when the header is absent.
func sectionLines(body string, head *regexp.Regexp) []string {
	lines := strings.Split(body, "\n")
	start := -1
	for i, line := range lines {
		if head.MatchString(line) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}
	end := len(lines)
	for i := start; i < len(lines); i++ {
		if sectionHeadRe.MatchString(lines[i]) {
			end = i
			break
		}
	}
	return lines[start:end]
}

// subsectionOnlyLines collects from the first summary subsection marker to
// the next top-level section header.
func subsectionOnlyLines(body string) []string {
	lines := strings.Split(body, "\n")
	start := -1
	for i, line := range lines {
		if summarySubheadRe.MatchString(strings.TrimSpace(line)) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}
	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if sectionHeadRe.MatchString(lines[i]) {
			end = i
			break
		}
	}
	return lines[start:end]
}

// firstNonClientAssignee picks a fallback contact from action-item
// assignees when the subject and body produced no name.
func firstNonClientAssignee(actionItems string) string {
	for _, line := range strings.Split(actionItems, "\n") {
		if i := strings.LastIndex(line, " — "); i >= 0 {
			name := strings.TrimSpace(line[i+len(" — "):])
			if name != "" {
				return name
			}
		}
	}
	return ""
}
