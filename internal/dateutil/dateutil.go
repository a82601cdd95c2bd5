// Package dateutil holds the calendar-date primitives shared by status
// derivation and the history views. Only calendar dates take part in
// comparisons; time of day is always discarded.
package dateutil

import (
	"strings"
	"time"
)

// Layout is the canonical wire form of a calendar date.
const Layout = "2006-01-02"

// NormalizeToMidnight returns the calendar date of t, taken in t's own
// location, at midnight UTC.
func NormalizeToMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsWithinInclusive reports whether start <= target <= end after
// normalization. It is the single definition of a covering interval.
func IsWithinInclusive(target, start, end time.Time) bool {
	target = NormalizeToMidnight(target)
	start = NormalizeToMidnight(start)
	end = NormalizeToMidnight(end)
	return !target.Before(start) && !target.After(end)
}

// FormatDisplay turns YYYY-MM-DD into DD/MM/YYYY. Empty input renders as "-"
// and anything that does not have three dash separated parts is returned
// unchanged.
func FormatDisplay(dateStr string) string {
	if dateStr == "" {
		return "-"
	}
	parts := strings.Split(dateStr, "-")
	if len(parts) != 3 {
		return dateStr
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

// ParseDate reads a calendar date. Besides YYYY-MM-DD it accepts RFC3339
// timestamps, which some record stores emit for date cells.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(Layout, s); err == nil {
		return t, true
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizeToMidnight(t), true
		}
	}
	return time.Time{}, false
}

// Format renders t as a canonical YYYY-MM-DD date.
func Format(t time.Time) string {
	return NormalizeToMidnight(t).Format(Layout)
}

// Canonical rewrites a parseable date string into YYYY-MM-DD and returns
// anything else unchanged.
func Canonical(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	return Format(t)
}
