package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by records and milestones.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date string. Values carrying a time component
// after a 'T' or a space (e.g. "2024-07-01T09:30:00Z") are accepted; only the
// date part is used. Any other trailing text makes the value invalid.
func ParseDate(s string) (time.Time, error) {
	date := s
	if len(s) > len(DateLayout) {
		switch s[len(DateLayout)] {
		case 'T', ' ':
			date = s[:len(DateLayout)]
		}
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DaysApart returns the absolute number of whole days between two calendar
// dates. ok is false when either date cannot be parsed.
func DaysApart(a, b string) (days int, ok bool) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, false
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, false
	}
	d := ta.Sub(tb)
	if d < 0 {
		d = -d
	}
	return int(d / (24 * time.Hour)), true
}
