package notes

import (
	"fmt"
	"strings"
)

// UpdateMode selects how UpdateSection combines new content with the
// section's current body.
type UpdateMode string

const (
	// ModeReplace makes the section body the new content verbatim.
	ModeReplace UpdateMode = "replace"
	// ModeAppend keeps the current body. With SortMessages the two are merged
	// as dated entries; without it the payload is prepended above a blank line.
	ModeAppend UpdateMode = "append"
)

// UpdateOptions tunes an UpdateSection call.
type UpdateOptions struct {
	Mode         UpdateMode
	SortMessages bool
}

// UpdateResult reports what an UpdateSection call did.
type UpdateResult struct {
	Notes           string
	PreviousContent string
	OldLineCount    int
	NewLineCount    int
	// SkippedDuplicate is set when an append-merge found nothing new; the
	// caller must not write the (unchanged) notes back to storage.
	SkippedDuplicate bool
}

// UpdateSection is the sole mutation path for section bodies. All writes are
// whole-section: replace, prepend, or entry merge. The legacy body is never
// consulted or touched.
func UpdateSection(raw string, key SectionKey, content string, opts UpdateOptions) (*UpdateResult, error) {
	if !IsValidSection(key) {
		return nil, fmt.Errorf("unknown notes section %q", key)
	}

	doc := Parse(raw)
	previous := doc.Section(key)
	content = strings.TrimSpace(content)

	var next string
	switch {
	case opts.Mode == ModeReplace:
		next = content
	case opts.SortMessages:
		merged, addedNew := MergeAndSortMessages(previous, content)
		if !addedNew && previous != "" {
			return &UpdateResult{
				Notes:            raw,
				PreviousContent:  previous,
				OldLineCount:     countLines(previous),
				NewLineCount:     countLines(previous),
				SkippedDuplicate: true,
			}, nil
		}
		next = merged
	default:
		if previous == "" {
			next = content
		} else {
			next = content + "\n\n" + previous
		}
	}

	doc.SetSection(key, next)
	return &UpdateResult{
		Notes:           Rebuild(doc),
		PreviousContent: previous,
		OldLineCount:    countLines(previous),
		NewLineCount:    countLines(next),
	}, nil
}
