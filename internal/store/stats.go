package store

import (
	"fmt"
	"time"
)

// PeriodRange returns the [start, end) date range for a display period
// relative to now: "day", "week" (starting Sunday), "month", or "year".
func PeriodRange(period string, now time.Time) (time.Time, time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case "day":
		return today, today.AddDate(0, 0, 1), nil
	case "week":
		start := today.AddDate(0, 0, -int(today.Weekday()))
		return start, start.AddDate(0, 0, 7), nil
	case "month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0), nil
	case "year":
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period: %s", period)
	}
}

// Totals returns per-slug minute and day totals for dates in [start, end).
func (r *Repo) Totals(start, end time.Time) ([]SlugTotal, error) {
	// The range is half-open; log_date comparison is inclusive, so back the
	// end date off by one day.
	last := end.AddDate(0, 0, -1)

	rows, err := r.db.Query(totalsSQL, start.Format(time.DateOnly), last.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var totals []SlugTotal
	for rows.Next() {
		var t SlugTotal
		if err := rows.Scan(&t.Slug, &t.Minutes, &t.Days); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// Streak returns the number of consecutive practiced days for a slug,
// counting back from today. A streak survives if the most recent entry is
// today or yesterday.
func (r *Repo) Streak(slug string, now time.Time) (int, error) {
	rows, err := r.db.Query(slugDatesDescSQL, slug)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()

	var dates []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return 0, err
		}
		d, err := time.ParseInLocation(time.DateOnly, s, now.Location())
		if err != nil {
			return 0, err
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(dates) == 0 {
		return 0, nil
	}

	// Calendar-date arithmetic; subtracting instants miscounts days whose
	// midnight-to-midnight span is not 24h (DST transitions).
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !dates[0].Equal(today) && !dates[0].AddDate(0, 0, 1).Equal(today) {
		return 0, nil
	}

	streak := 1
	for i := 1; i < len(dates); i++ {
		if !dates[i].AddDate(0, 0, 1).Equal(dates[i-1]) {
			break
		}
		streak++
	}
	return streak, nil
}
