package contract

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Timestamp layouts tried in order. Layouts carrying a zone are normalized
// to UTC wall clock afterwards; zoneless layouts are parsed as UTC directly.
// Apple Health exports use "2006-01-02 15:04:05 -0700".
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02 15:04:05.999999999 -0700",
}

var nakedLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseTimestamp parses one raw cell into a canonical instant. Offset-aware
// values are converted to UTC wall clock and the zone discarded, so every
// canonical instant is naive-as-UTC. This is a deliberate simplification for
// mixed-offset exports, not a claim about absolute time.
func ParseTimestamp(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range nakedLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ParseFloat coerces one raw cell to a float. The bool result is false for
// missing or non-numeric cells.
func ParseFloat(value string) (float64, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseRelativeTime parses phrases like "3 months ago" or "1 week ago"
// relative to now. Supported units: day(s), week(s), month(s), year(s).
func ParseRelativeTime(value string, now time.Time) (time.Time, error) {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(value)))
	if len(parts) != 3 || parts[2] != "ago" {
		return time.Time{}, fmt.Errorf("invalid relative time %q (expected '<n> <unit> ago')", value)
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil || n < 0 {
		return time.Time{}, fmt.Errorf("invalid relative time amount %q", parts[0])
	}
	unit := strings.TrimSuffix(parts[1], "s")
	switch unit {
	case "day":
		return now.AddDate(0, 0, -n), nil
	case "week":
		return now.AddDate(0, 0, -7*n), nil
	case "month":
		return now.AddDate(0, -n, 0), nil
	case "year":
		return now.AddDate(-n, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("invalid relative time unit %q", parts[1])
	}
}

// ParseTimePoint accepts either an absolute timestamp (any supported layout)
// or a relative phrase ("2 weeks ago"), for window boundary flags.
func ParseTimePoint(value string, now time.Time) (time.Time, error) {
	if t, err := ParseRelativeTime(value, now); err == nil {
		return t, nil
	}
	t, err := ParseTimestamp(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use a datetime like %s or a phrase like '3 months ago'", value, DateTimeFormat)
	}
	return t, nil
}
