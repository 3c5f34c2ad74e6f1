package notes

import "strings"

// ValidTags is the closed tag vocabulary. Tokens outside it are silently
// dropped on every write.
var ValidTags = map[string]bool{
	"promised":       true,
	"agreed-to-meet": true,
	"no-show":        true,
	"warm-response":  true,
	"cold":           true,
	"moving-on":      true,
	"draft-pending":  true,
}

func parseTagsLine(line string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, token := range strings.Fields(strings.TrimPrefix(line, tagsPrefix)) {
		tag := strings.TrimPrefix(token, "#")
		if tag == token {
			continue // not a hash token
		}
		if !ValidTags[tag] || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// GetTags returns the document's tag tokens in line order.
func GetTags(raw string) []string {
	return Parse(raw).Tags
}

// HasTag reports whether the document carries the given tag.
func HasTag(raw, tag string) bool {
	for _, t := range GetTags(raw) {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends a tag to the tags line, preserving insertion order. Unknown
// tags and duplicates leave the document unchanged.
func AddTag(raw, tag string) string {
	if !ValidTags[tag] || HasTag(raw, tag) {
		return raw
	}
	doc := Parse(raw)
	doc.Tags = append(doc.Tags, tag)
	return Rebuild(doc)
}

// RemoveTag drops a tag from the tags line.
func RemoveTag(raw, tag string) string {
	doc := Parse(raw)
	kept := doc.Tags[:0]
	for _, t := range doc.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	doc.Tags = kept
	return Rebuild(doc)
}

// SetTags replaces the tags line wholesale, filtering to the closed set and
// deduplicating while preserving the caller's order.
func SetTags(raw string, tags []string) string {
	doc := Parse(raw)
	doc.Tags = nil
	seen := map[string]bool{}
	for _, tag := range tags {
		tag = strings.TrimPrefix(tag, "#")
		if !ValidTags[tag] || seen[tag] {
			continue
		}
		seen[tag] = true
		doc.Tags = append(doc.Tags, tag)
	}
	return Rebuild(doc)
}
