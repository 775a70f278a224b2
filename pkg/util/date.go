package util

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used on the wire.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	"1/2/2006",
	"2006/01/02",
	"01-02-06",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a trading date in any of the layouts seen in exported price files.
// The result is truncated to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Day drops the clock part of t, keeping the calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as an ISO-8601 date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// RangeStart returns the first date included in a trailing window ending at end.
// ok is false for an unknown range name. "all" returns the zero time.
func RangeStart(end time.Time, rng string) (time.Time, bool) {
	switch strings.ToLower(rng) {
	case "1d":
		return end, true
	case "1w":
		return end.AddDate(0, 0, -7), true
	case "1m":
		return end.AddDate(0, -1, 0), true
	case "3m":
		return end.AddDate(0, -3, 0), true
	case "6m":
		return end.AddDate(0, -6, 0), true
	case "1y":
		return end.AddDate(-1, 0, 0), true
	case "all":
		return time.Time{}, true
	default:
		return time.Time{}, false
	}
}
