package store

import (
	"strconv"
	"time"
)

// DateLayout is the wire and text representation of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day without time-of-day, normalized to midnight UTC.
type Date struct {
	time.Time
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// NewDate builds a Date from its parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, Violation(ErrInvalidInput, "invalid date %q, expected YYYY-MM-DD", s)
	}

	return DateOf(t), nil
}

// String formats the date as "YYYY-MM-DD".
func (d Date) String() string {
	return d.Format(DateLayout)
}

// BeforeDate reports whether d is an earlier calendar day than other.
func (d Date) BeforeDate(other Date) bool {
	return d.Before(other.Time)
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return Violation(ErrInvalidInput, "date must be a string")
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

func datePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}

	d := DateOf(*t)

	return &d
}

// Clock provides the wall-clock time used for "current date" defaults.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the operating system clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. Tests use it for deterministic dates.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.At
}

// Today returns the current calendar day according to clock.
func Today(clock Clock) Date {
	return DateOf(clock.Now())
}
