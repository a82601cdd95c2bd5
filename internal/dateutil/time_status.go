package dateutil

import "time"

// TimeStatus classifies a movement relative to a reference day.
type TimeStatus string

const (
	TimeStatusPast     TimeStatus = "PAST"
	TimeStatusUpcoming TimeStatus = "UPCOMING"
	TimeStatusOngoing  TimeStatus = "ONGOING"
)

// TimeStatusOf reports whether the interval [dateOut, dateReturn] has ended,
// has not started yet, or covers today. Unparseable bounds are treated as
// open on that side.
func TimeStatusOf(dateOut, dateReturn string, today time.Time) TimeStatus {
	today = NormalizeToMidnight(today)
	if ret, ok := ParseDate(dateReturn); ok && today.After(ret) {
		return TimeStatusPast
	}
	if out, ok := ParseDate(dateOut); ok && today.Before(out) {
		return TimeStatusUpcoming
	}
	return TimeStatusOngoing
}
