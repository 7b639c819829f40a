package parse

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the layout of every persisted login and logout time.
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t in loc using TimestampLayout.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimestampLayout)
}

// Timestamp parses a TimestampLayout string in loc.
func Timestamp(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", raw, err)
	}
	return t, nil
}

// OptionalTimestamp is Timestamp for columns where an empty cell means absent.
func OptionalTimestamp(raw string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := Timestamp(raw, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
