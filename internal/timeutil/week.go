// Package timeutil provides ISO-8601 week arithmetic for the updates feed.
package timeutil

import (
	"fmt"
	"time"
)

// WeekKey returns the ISO-8601 week identifier for t, in the form
// "YYYY-W##" (zero-padded week number). The year is the ISO week-numbering
// year, which may differ from the calendar year near year boundaries.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// ParseWeekKey splits a "YYYY-W##" key into its year and week components.
func ParseWeekKey(key string) (year, week int, err error) {
	if _, err = fmt.Sscanf(key, "%4d-W%2d", &year, &week); err != nil {
		return 0, 0, fmt.Errorf("timeutil: malformed week key %q: %w", key, err)
	}
	if week < 1 || week > 53 {
		return 0, 0, fmt.Errorf("timeutil: week out of range in %q", key)
	}
	if fmt.Sprintf("%04d-W%02d", year, week) != key {
		return 0, 0, fmt.Errorf("timeutil: malformed week key %q", key)
	}
	return year, week, nil
}

// WeekRange returns the Monday and Sunday bounding the given ISO week.
// It inverts WeekKey for any key WeekKey produces.
func WeekRange(key string) (start, end time.Time, err error) {
	year, week, err := ParseWeekKey(key)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	// Jan 4 is always inside ISO week 1 of its year.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)

	start = week1Monday.AddDate(0, 0, (week-1)*7)
	end = start.AddDate(0, 0, 6)

	// Reject keys like 2025-W53 when the year has only 52 ISO weeks.
	if gotYear, gotWeek := start.ISOWeek(); gotYear != year || gotWeek != week {
		return time.Time{}, time.Time{}, fmt.Errorf("timeutil: %q is not a valid ISO week", key)
	}
	return start, end, nil
}

// WeekRangeLabel renders the Monday–Sunday range of an ISO week as a short
// human-readable label, e.g. "Jan 06 – Jan 12, 2025". Malformed input yields
// an empty string.
func WeekRangeLabel(key string) string {
	start, end, err := WeekRange(key)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s – %s", start.Format("Jan 02"), end.Format("Jan 02, 2006"))
}
