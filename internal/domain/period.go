package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod is returned when a period's year or month is out of range.
var ErrInvalidPeriod = errors.New("invalid period")

// Period is a calendar month used to scope curation.
type Period struct {
	Year  int `json:"year" validate:"required,gte=1900,lte=9999"`
	Month int `json:"month" validate:"required,gte=1,lte=12"`
}

// Validate checks that the period names a real calendar month.
func (p Period) Validate() error {
	if p.Year < 1 || p.Year > 9999 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, p.Year)
	}
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, p.Month)
	}
	return nil
}

// Key returns the normalized YYYY-MM prefix that record dates in this period
// start with.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Label returns the human-readable month and year, e.g. "July 2024".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", time.Month(p.Month).String(), p.Year)
}
