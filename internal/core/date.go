package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// DayFormat is the canonical encoding of a Day, used for storage and the wire.
const DayFormat = "2006-01-02"

// readDayFormat additionally accepts single-digit month/day on input.
const readDayFormat = "2006-1-2"

// Day is a calendar day with no time component. Entries carry a Day rather
// than a time.Time so that comparisons happen at UTC-day granularity and
// never drift across timezone offsets.
type Day struct {
	y int
	m time.Month
	d int
}

// NewDay returns a normalized Day for the given year, month, and day.
func NewDay(year int, month time.Month, day int) Day {
	d := Day{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current UTC calendar day.
func Today() Day { return NewDay(time.Now().UTC().Date()) }

// ParseDay parses a Day. It is lenient on input ("2024-1-5" is accepted) but
// every parsed value renders back to the canonical YYYY-MM-DD form.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(readDayFormat, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q want format %q", ErrInvalidDate, s, DayFormat)
	}
	return NewDay(t.Date()), nil
}

// MustParseDay is like ParseDay but panics on error. Intended for tests.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// time returns the canonical instant for the day (midnight UTC).
func (d Day) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Day) Year() int         { return d.y }
func (d Day) Month() time.Month { return d.m }
func (d Day) Day() int          { return d.d }

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool { return d == Day{} }

// Before reports whether d falls before x.
func (d Day) Before(x Day) bool { return d.time().Before(x.time()) }

// After reports whether d falls after x.
func (d Day) After(x Day) bool { return d.time().After(x.time()) }

// AddDays returns the day i days after d (negative i goes back).
func (d Day) AddDays(i int) Day { return NewDay(d.y, d.m, d.d+i) }

// Weekday returns the day of the week.
func (d Day) Weekday() time.Weekday { return d.time().Weekday() }

// StartOfWeek returns the Monday of the ISO week containing d.
func (d Day) StartOfWeek() Day {
	wd := int(d.Weekday())
	if wd == 0 { // Sunday closes the ISO week
		return d.AddDays(-6)
	}
	return d.AddDays(-(wd - 1))
}

// MonthBounds returns the first and last day of d's month.
func (d Day) MonthBounds() (first, last Day) {
	first = NewDay(d.y, d.m, 1)
	last = NewDay(d.y, d.m+1, 0)
	return first, last
}

// String formats the day in its canonical form.
func (d Day) String() string { return d.time().Format(DayFormat) }

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var _ json.Marshaler = (*Day)(nil)
var _ json.Unmarshaler = (*Day)(nil)
