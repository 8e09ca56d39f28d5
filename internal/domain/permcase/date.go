// Package permcase implements the PERM deadline rules engine: date
// arithmetic, constraint resolution, field cascades, form validation, and
// deadline activation for labor-certification case tracking.
//
// Every operation in this package is a pure computation over its inputs.
// Nothing here performs I/O or mutates shared state, and the only
// configuration (the holiday table and the day-count thresholds) is frozen
// into an Engine value at construction time.  Callers may memoize results
// on input equality and invoke the engine concurrently without
// coordination.  The single exception is Today, which reads the clock and
// exists for entry points only.
package permcase

import (
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lexfield/perm-engine/pkg/errors"
)

// isoDateLayout is the only date format that crosses the engine boundary.
// Dates are naive civil dates: no time of day, no timezone.
const isoDateLayout = "2006-01-02"

// Date is a whole calendar date.  The zero value is not a valid date;
// optional case fields are represented as *Date with nil meaning "milestone
// not yet reached".
type Date struct {
	t time.Time
}

// NewDate constructs a Date from year, month, day.  Out-of-range components
// are normalised the way time.Date normalises them.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO YYYY-MM-DD string.  Anything else fails fast with
// a MalformedDate error; the engine never silently coerces a date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return Date{}, errors.MalformedDate("", s).WithCause(err)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for compile-time-known literals; it panics on
// malformed input and is intended for tests and fixtures only.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// Today returns the current calendar date in the local timezone.  Deadline
// arithmetic never calls this; only entry points resolving a default
// reference date do.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// String formats the date as ISO YYYY-MM-DD.
func (d Date) String() string {
	return d.t.Format(isoDateLayout)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the date as a UTC midnight timestamp.
func (d Date) Time() time.Time {
	return d.t
}

// Weekday returns the day of week.
func (d Date) Weekday() time.Weekday {
	return d.t.Weekday()
}

// Year returns the calendar year.
func (d Date) Year() int {
	return d.t.Year()
}

// AddYears returns the date n calendar years after d, e.g. for wage
// determination validity.
func (d Date) AddYears(n int) Date {
	return Date{t: d.t.AddDate(n, 0, 0)}
}

// AddDays returns the date n calendar days after d (before, when n < 0).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal reports whether d and other are the same calendar date.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// DaysUntil returns the signed number of whole days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// MarshalJSON encodes the date as an ISO string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes an ISO string, rejecting anything malformed.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, errors.ErrCodeMalformedDate, "date must be an ISO YYYY-MM-DD string")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML encodes the date as an ISO string.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML decodes an ISO string, rejecting anything malformed.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return errors.Wrap(err, errors.ErrCodeMalformedDate, "date must be an ISO YYYY-MM-DD string")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// datePtr returns a pointer to a copy of d.  Engine code uses this when
// deriving new optional fields so that returned snapshots never alias the
// inputs.
func datePtr(d Date) *Date {
	return &d
}

// minDate returns the earlier of two dates.
func minDate(a, b Date) Date {
	if b.Before(a) {
		return b
	}
	return a
}

// maxDate returns the later of two dates.
func maxDate(a, b Date) Date {
	if b.After(a) {
		return b
	}
	return a
}
