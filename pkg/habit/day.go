package habit

import (
	"fmt"
	"time"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// Day is a calendar date with the time of day discarded. The zero Day is not
// a valid date.
type Day struct {
	t time.Time // midnight UTC of the civil date
}

// FromTime returns the calendar date of t in t's own location.
func FromTime(t time.Time) Day {
	y, m, d := t.Date()
	return Day{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar date.
func Today() Day {
	return FromTime(time.Now())
}

// Date builds a Day from its components, normalizing overflow the way
// time.Date does.
func Date(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDay accepts a YYYY-MM-DD date or an RFC 3339 timestamp. Timestamps are
// converted to the local zone before the date is taken.
func ParseDay(s string) (Day, error) {
	if t, err := time.Parse(dayLayout, s); err == nil {
		return FromTime(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return FromTime(t.In(time.Local)), nil
	}
	return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (d Day) IsZero() bool { return d.t.IsZero() }

func (d Day) Year() int         { return d.t.Year() }
func (d Day) Month() time.Month { return d.t.Month() }
func (d Day) DayOfMonth() int   { return d.t.Day() }

// AddDays returns the date n days after d (before, for negative n).
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Sub returns d - o in whole days.
func (d Day) Sub(o Day) int {
	return int(d.t.Sub(o.t) / (24 * time.Hour))
}

// Compare returns -1, 0 or +1 as d is before, the same as, or after o.
func (d Day) Compare(o Day) int {
	return d.t.Compare(o.t)
}

func (d Day) Before(o Day) bool { return d.t.Before(o.t) }
func (d Day) After(o Day) bool  { return d.t.After(o.t) }
func (d Day) Equal(o Day) bool  { return d.t.Equal(o.t) }

// Time returns midnight of d in loc.
func (d Day) Time(loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.DayOfMonth(), 0, 0, 0, 0, loc)
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dayLayout)
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	v, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(d Day) Month {
	return Month{Year: d.Year(), Month: d.Month()}
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: month %q", ErrInvalidDate, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) First() Day { return Date(m.Year, m.Month, 1) }

// Last returns the final day of the month; day 0 of the next month.
func (m Month) Last() Day { return Date(m.Year, m.Month+1, 0) }

func (m Month) Days() int { return m.Last().DayOfMonth() }

func (m Month) Contains(d Day) bool {
	return d.Year() == m.Year && d.Month() == m.Month
}

func (m Month) Next() Month { return MonthOf(m.First().AddDays(m.Days())) }
func (m Month) Prev() Month { return MonthOf(m.First().AddDays(-1)) }

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Month) UnmarshalText(b []byte) error {
	v, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
