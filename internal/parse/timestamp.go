package parse

import (
	"fmt"
	"strings"
	"time"
)

// Layouts the upstream API emits. Python's naive isoformat carries no zone and
// is treated as UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

const (
	dateLayout     = "02 Jan 2006"
	dateTimeLayout = "02 Jan 2006 15:04"
)

// ParseTimestamp converts an upstream timestamp string into a time.Time.
func ParseTimestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %q", raw)
}

// Date renders raw as a calendar date, or "N/A" when it is missing or unparseable.
func Date(raw string) string {
	t, err := ParseTimestamp(raw)
	if err != nil {
		return "N/A"
	}
	return t.Format(dateLayout)
}

// DateTime renders raw as date and time. Unparseable input is returned unchanged
// so the reader still sees what the server sent; empty input becomes "N/A".
func DateTime(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "N/A"
	}
	t, err := ParseTimestamp(raw)
	if err != nil {
		return raw
	}
	return t.Format(dateTimeLayout)
}
