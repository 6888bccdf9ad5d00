package summary

import "time"

// MonthsAgo returns the calendar date n months before d, with the day clamped
// to the target month's length (Mar 31 minus one month is Feb 28/29, not an
// overflow into March).
func MonthsAgo(d time.Time, n int) time.Time {
	y := d.Year()
	m := int(d.Month()) - n
	for m <= 0 {
		m += 12
		y--
	}

	day := d.Day()
	if max := daysInMonth(y, time.Month(m)); day > max {
		day = max
	}
	return time.Date(y, time.Month(m), day, 0, 0, 0, 0, d.Location())
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
