package leave

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	leaveerrors "go-leave/internal/leave/errors"
)

const DateLayout = "2006-01-02"

// Date is a calendar date with no time of day. The wrapped time is always
// midnight UTC, so differences between two Dates are whole days regardless
// of the local zone or DST.
type Date struct {
	t time.Time
}

// NewDate takes the calendar date of t as seen in t's own location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DateOf builds a Date from its parts.
func DateOf(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp, whose calendar date
// is taken as written.
func ParseDate(v string) (Date, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(DateLayout, v); err == nil {
		return NewDate(t), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return NewDate(t), nil
	}
	return Date{}, leaveerrors.ErrInvalidDateFormat
}

func (d Date) Time() time.Time { return d.t }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) After(o Date) bool { return d.t.After(o.t) }

func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) Year() int { return d.t.Year() }

func (d Date) Month() time.Month { return d.t.Month() }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Value stores the date in a postgres DATE column.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.t, nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = NewDate(v)
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return fmt.Errorf("scan date %q: %w", v, err)
		}
		*d = parsed
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("scan date: unsupported type %T", src)
	}
	return nil
}

// DateRange is an inclusive period of calendar days.
type DateRange struct {
	Start Date
	End   Date
}

// Overlaps reports whether the closed intervals share at least one day.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

// Days is the inclusive day count of the range.
func (r DateRange) Days() int {
	return CalculateDays(r.Start, r.End)
}

const secondsPerDay = 24 * 60 * 60

// CalculateDays returns the inclusive number of calendar days between start
// and end; the same date counts as one day.
func CalculateDays(start, end Date) int {
	return int((end.t.Unix()-start.t.Unix())/secondsPerDay) + 1
}
