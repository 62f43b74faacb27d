// Package calendar provides the date arithmetic used by the analysis services.
//
// Two date universes are kept deliberately separate: LocalDay for anything a
// human typed or reads ("today", "past 30 days"), and CivilDay for anything
// that must come out identical regardless of server timezone (day-count
// deltas, month keys, recurrence intervals). Crossing between them is always
// an explicit conversion, never an implicit one at a call site.
package calendar

import (
	"fmt"
	"time"
)

// CivilDay is a timezone-free calendar day, pinned to UTC midnight.
// All derived computation (interval math, month keys, projections) uses it.
type CivilDay struct {
	t time.Time
}

// NewCivilDay creates a CivilDay from year, month, day.
func NewCivilDay(year int, month time.Month, day int) CivilDay {
	return CivilDay{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseCivilDay parses an ISO date string (2006-01-02) into a CivilDay.
func ParseCivilDay(s string) (CivilDay, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return CivilDay{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return CivilDay{t: t}, nil
}

// Time returns the underlying UTC midnight instant.
func (d CivilDay) Time() time.Time { return d.t }

// Year returns the year.
func (d CivilDay) Year() int { return d.t.Year() }

// Month returns the month.
func (d CivilDay) Month() time.Month { return d.t.Month() }

// Day returns the day of the month.
func (d CivilDay) Day() int { return d.t.Day() }

// IsZero reports whether the day is the zero value.
func (d CivilDay) IsZero() bool { return d.t.IsZero() }

// Before reports whether d is before o.
func (d CivilDay) Before(o CivilDay) bool { return d.t.Before(o.t) }

// After reports whether d is after o.
func (d CivilDay) After(o CivilDay) bool { return d.t.After(o.t) }

// Equal reports whether d and o are the same day.
func (d CivilDay) Equal(o CivilDay) bool { return d.t.Equal(o.t) }

// String returns the ISO form (2006-01-02).
func (d CivilDay) String() string { return d.t.Format("2006-01-02") }

// MonthKey returns the sort-friendly month key (2006-01).
func (d CivilDay) MonthKey() string { return d.t.Format("2006-01") }

// AddDays returns the day n days after d (n may be negative).
func (d CivilDay) AddDays(n int) CivilDay {
	return CivilDay{t: d.t.AddDate(0, 0, n)}
}

// AddMonths returns the day n months after d, clamping the day of month to
// the target month's last day so Jan 31 + 1 month is Feb 28/29, never Mar 3.
func (d CivilDay) AddMonths(n int) CivilDay {
	year, month, day := d.t.Date()
	m := int(month) - 1 + n
	year += m / 12
	m %= 12
	if m < 0 {
		m += 12
		year--
	}
	target := time.Month(m + 1)
	if last := daysInMonth(year, target); day > last {
		day = last
	}
	return NewCivilDay(year, target, day)
}

// MarshalJSON encodes the day as an ISO date string.
func (d CivilDay) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes an ISO date string or null.
func (d *CivilDay) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = CivilDay{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %q: expected quoted YYYY-MM-DD", s)
	}
	parsed, err := ParseCivilDay(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysBetween returns the whole days from a to b. Both operands are already
// at UTC midnight, so DST transitions never perturb the count by an hour.
func DaysBetween(a, b CivilDay) int {
	return int(b.t.Sub(a.t) / (24 * time.Hour))
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LocalDay is a calendar day in the server's local timezone, normalized to
// local midnight. It exists only at the human boundary: "today" anchors and
// relative date expressions. Use Civil to cross into derived computation.
type LocalDay struct {
	t time.Time
}

// Today returns the current day at local midnight.
func Today() LocalDay {
	return LocalDayOf(time.Now())
}

// LocalDayOf truncates an instant to its local midnight.
func LocalDayOf(t time.Time) LocalDay {
	year, month, day := t.Date()
	return LocalDay{t: time.Date(year, month, day, 0, 0, 0, 0, t.Location())}
}

// NewLocalDay creates a LocalDay from year, month, day in the local zone.
func NewLocalDay(year int, month time.Month, day int) LocalDay {
	return LocalDay{t: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// Civil converts to the UTC universe, preserving the calendar date.
func (d LocalDay) Civil() CivilDay {
	year, month, day := d.t.Date()
	return NewCivilDay(year, month, day)
}

// Year returns the year.
func (d LocalDay) Year() int { return d.t.Year() }

// Month returns the month.
func (d LocalDay) Month() time.Month { return d.t.Month() }

// Day returns the day of the month.
func (d LocalDay) Day() int { return d.t.Day() }

// Weekday returns the day of the week.
func (d LocalDay) Weekday() time.Weekday { return d.t.Weekday() }

// IsZero reports whether the day is the zero value.
func (d LocalDay) IsZero() bool { return d.t.IsZero() }

// String returns the ISO form (2006-01-02).
func (d LocalDay) String() string { return d.t.Format("2006-01-02") }

// AddDays returns the day n days after d.
func (d LocalDay) AddDays(n int) LocalDay {
	return LocalDayOf(d.t.AddDate(0, 0, n))
}

// FirstOfMonth returns day 1 of d's month.
func (d LocalDay) FirstOfMonth() LocalDay {
	return LocalDay{t: time.Date(d.t.Year(), d.t.Month(), 1, 0, 0, 0, 0, d.t.Location())}
}

// addMonthsClamped subtracts or adds whole months after clamping the day of
// month to 1, so "last month" from Jan 31 lands on Dec 1, never an overflow.
func (d LocalDay) addMonthsClamped(n int) LocalDay {
	first := d.FirstOfMonth()
	return LocalDayOf(first.t.AddDate(0, n, 0))
}

// addYearsClamped clamps to day 1 of the month before moving whole years.
func (d LocalDay) addYearsClamped(n int) LocalDay {
	first := d.FirstOfMonth()
	return LocalDayOf(first.t.AddDate(n, 0, 0))
}
