package schedule

import "time"

// ResolveDueDate returns the closest valid date in (year, month) for the
// desired day, clamping to the last day of shorter months. A due day of 31
// degrades to Feb 28 (29 in leap years).
func ResolveDueDate(year int, month time.Month, day int) time.Time {
	last := daysIn(year, month)
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// daysIn counts the days of a month. Day 0 of the next month normalizes to the
// last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
