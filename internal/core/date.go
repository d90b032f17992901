package core

import (
	"fmt"
	"time"
)

// Date is a civil date: year, month and day with no time-of-day component.
// All dates are normalized to UTC midnight so comparisons behave like plain
// calendar comparisons.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t.UTC()}, nil
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool { return d.Time.After(other.Time) }

// Equal reports whether d and other are the same calendar day.
func (d Date) Equal(other Date) bool { return d.Time.Equal(other.Time) }

// In reports whether d lies in [start, end], inclusive on both bounds.
func (d Date) In(start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}

// Min returns the earlier of d and other.
func (d Date) Min(other Date) Date {
	if other.Before(d) {
		return other
	}
	return d
}

// Max returns the later of d and other.
func (d Date) Max(other Date) Date {
	if other.After(d) {
		return other
	}
	return d
}

// String formats the date as ISO 2006-01-02.
func (d Date) String() string {
	return d.Time.Format("2006-01-02")
}
