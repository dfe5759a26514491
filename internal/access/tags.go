package access

import "strings"

// Tag is one ordered key/value annotation on a grant, e.g. account
// identifiers or license tiers specific to the target system.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseTags decodes the stored "key: value" line format into ordered
// pairs. Lines without a colon become a value-less tag; blank lines are
// skipped. Order is preserved.
func ParseTags(text *string) []Tag {
	if text == nil || strings.TrimSpace(*text) == "" {
		return nil
	}

	var tags []Tag
	for _, line := range strings.Split(*text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			tags = append(tags, Tag{Key: strings.TrimSpace(key)})
			continue
		}
		tags = append(tags, Tag{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	return tags
}

// FormatTags is the inverse of ParseTags. Returns nil for an empty set
// so the column stays NULL instead of holding an empty string.
func FormatTags(tags []Tag) *string {
	if len(tags) == 0 {
		return nil
	}

	lines := make([]string, 0, len(tags))
	for _, t := range tags {
		key := strings.TrimSpace(t.Key)
		if key == "" && t.Value == "" {
			continue
		}
		if t.Value == "" {
			lines = append(lines, key)
			continue
		}
		lines = append(lines, key+": "+strings.TrimSpace(t.Value))
	}
	if len(lines) == 0 {
		return nil
	}

	text := strings.Join(lines, "\n")
	return &text
}
