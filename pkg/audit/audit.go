// Package audit diffs a lead's notes before and after a write so every
// mutation leaves a structured trail.
package audit

import (
	"strings"

	"lead-inbox-be/pkg/notes"
)

// Record describes one notes write.
type Record struct {
	LeadID                string `json:"lead_id"`
	Source                string `json:"source"`
	BeforeLen             int    `json:"before_len"`
	AfterLen              int    `json:"after_len"`
	EmailSectionBefore    int    `json:"email_section_before"`
	EmailSectionAfter     int    `json:"email_section_after"`
	EmailBlockCountBefore int    `json:"email_block_count_before"`
	EmailBlockCountAfter  int    `json:"email_block_count_after"`
	// ContentLoss fires when the EMAIL section shrank from non-empty to
	// shorter; a write is never supposed to do that.
	ContentLoss bool `json:"content_loss"`
}

// Diff compares two notes documents.
func Diff(leadID, source, before, after string) *Record {
	emailBefore := notes.GetSection(before, notes.SectionEmail)
	emailAfter := notes.GetSection(after, notes.SectionEmail)

	return &Record{
		LeadID:                leadID,
		Source:                source,
		BeforeLen:             len(before),
		AfterLen:              len(after),
		EmailSectionBefore:    len(emailBefore),
		EmailSectionAfter:     len(emailAfter),
		EmailBlockCountBefore: countBlocks(emailBefore),
		EmailBlockCountAfter:  countBlocks(emailAfter),
		ContentLoss:           emailBefore != "" && len(emailAfter) < len(emailBefore),
	}
}

// countBlocks counts dated message lines, the unit an operator reads the
// EMAIL section in.
func countBlocks(section string) int {
	n := 0
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if len(line) >= 9 && line[2] == '-' && line[5] == '-' {
			n++
		}
	}
	return n
}
