package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Tags is a set of note tags. In memory it is a slice; at the adapter
// boundary it is serialized to a comma-joined string.
type Tags []string

// ParseTags splits comma-separated input, trims whitespace and discards
// empty entries. Parsing its own String output yields the same set, so the
// normalization is idempotent.
func ParseTags(s string) Tags {
	parts := strings.Split(s, ",")
	tags := make(Tags, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		tags = append(tags, p)
	}
	return tags
}

// Normalize re-applies the trim/drop-empty rules to an existing slice.
func (t Tags) Normalize() Tags {
	out := make(Tags, 0, len(t))
	for _, tag := range t {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}

func (t Tags) String() string {
	return strings.Join(t, ",")
}

// Value implements driver.Valuer, storing the comma-joined form.
func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "", nil
	}
	return t.Normalize().String(), nil
}

// Scan implements sql.Scanner for the comma-joined storage form.
func (t *Tags) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*t = nil
	case string:
		*t = ParseTags(v)
	case []byte:
		*t = ParseTags(string(v))
	default:
		return fmt.Errorf("tags: cannot scan %T", value)
	}
	return nil
}
