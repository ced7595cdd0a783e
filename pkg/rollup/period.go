// Package rollup turns a month of daily log entries into a monthly summary
// and removes the consumed entries from the log.
package rollup

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel period errors.
var (
	// ErrInvalidMonth indicates a month outside 1..12.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	// ErrInvalidYear indicates a non-positive year.
	ErrInvalidYear = errors.New("year must be positive")
)

// Period is one calendar month.
type Period struct {
	Year  int        `json:"year"  yaml:"year"`
	Month time.Month `json:"month" yaml:"month"`
}

// NewPeriod validates and builds a Period.
func NewPeriod(year int, month time.Month) (Period, error) {
	if month < time.January || month > time.December {
		return Period{}, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}

	if year <= 0 {
		return Period{}, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}

	return Period{Year: year, Month: month}, nil
}

// PeriodOf returns the calendar month containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ResolvePeriod picks the rollover target. The base is the month containing
// now, or the month before it when auto is set; non-zero month and year
// override the base fields.
func ResolvePeriod(now time.Time, month, year int, auto bool) (Period, error) {
	base := PeriodOf(now)
	if auto {
		base = base.Previous()
	}

	if month != 0 {
		base.Month = time.Month(month)
	}

	if year != 0 {
		base.Year = year
	}

	return NewPeriod(base.Year, base.Month)
}

// Previous returns the month before p.
func (p Period) Previous() Period {
	if p.Month == time.January {
		return Period{Year: p.Year - 1, Month: time.December}
	}

	return Period{Year: p.Year, Month: p.Month - 1}
}

// Contains reports whether t falls in p.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// String formats p as "November 2025".
func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// Key formats p as "2025-11".
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
