package cashflow

import "time"

// MonthStart normalizes any timestamp to the first of its month at midnight
// UTC. Reference months are always stored and compared in this form.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths shifts a first-of-month date by n calendar months. Safe because
// the day is always 1, so time.Date normalization can only move whole months.
func AddMonths(month time.Time, n int) time.Time {
	return time.Date(month.Year(), month.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
}

// MonthKey renders a reference month as YYYY-MM.
func MonthKey(month time.Time) string {
	return month.Format("2006-01")
}
