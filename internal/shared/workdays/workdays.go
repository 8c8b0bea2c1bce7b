// Package workdays counts working days (Monday through Friday) in
// inclusive date ranges. All arithmetic is done on date-only values
// pinned to UTC so day boundaries are stable regardless of the
// caller's zone.
package workdays

import "time"

// Count returns the number of weekdays in [start, end] inclusive.
// Saturdays and Sundays are excluded. Returns 0 when start is after end
// or when the range contains no weekday.
func Count(start, end time.Time) int {
	start = Truncate(start)
	end = Truncate(end)
	if start.After(end) {
		return 0
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}

// Truncate drops the time-of-day component and pins the value to UTC.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current UTC calendar day at midnight.
func Today() time.Time {
	return Truncate(time.Now().UTC())
}
