// Package calendar holds the date-only helpers shared by the functional core.
// Stage boundaries and task deadlines are calendar days, not instants.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the wire and storage format for calendar days.
const Layout = "2006-01-02"

// Day truncates t to midnight UTC of its own calendar date. The wall-clock
// date in t's location is what counts, so 2024-03-01T23:30+07:00 is 2024-03-01.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse reads a YYYY-MM-DD string into a Day.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// Format renders a Day as YYYY-MM-DD.
func Format(t time.Time) string {
	return Day(t).Format(Layout)
}

// OnOrAfter reports whether a falls on or after b, comparing dates only.
func OnOrAfter(a, b time.Time) bool {
	return !Day(a).Before(Day(b))
}
