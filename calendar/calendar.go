/*
Package calendar provides pure date arithmetic for the timesheet core.

PURPOSE:
  Everything the generation and balance logic needs to know about the
  calendar lives here: day-granularity dates, leap years, weekends, and
  public holidays per German federal state. No I/O, no clocks, no state.

KEY CONCEPTS IN THIS FILE (calendar.go):
  - Day: A calendar date with day granularity (used as entry keys)
  - YearData: Day count and leap-year flag for a year
  - Weekend classification

SEE ALSO:
  - holidays.go: Holiday sets and workday/weekend/holiday classification
*/
package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY - Calendar date at day granularity
// =============================================================================

// Day is a calendar date. The zero value is the zero date.
// All Days are normalized to midnight UTC so they compare by date only.
type Day struct {
	Time time.Time
}

// DayFormat is the wire/storage format for Days.
const DayFormat = "2006-01-02"

// Constructors
func NewDay(year int, month time.Month, day int) Day {
	return Day{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates a time to its calendar date.
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Day{Time: t}, nil
}

// Comparison
func (d Day) Before(other Day) bool { return d.Time.Before(other.Time) }
func (d Day) After(other Day) bool { return d.Time.After(other.Time) }
func (d Day) Equal(other Day) bool { return d.Time.Equal(other.Time) }
func (d Day) IsZero() bool { return d.Time.IsZero() }

// Arithmetic
func (d Day) AddDays(n int) Day { return Day{Time: d.Time.AddDate(0, 0, n)} }
func (d Day) AddMonths(n int) Day { return Day{Time: d.Time.AddDate(0, n, 0)} }

// Properties
func (d Day) Year() int { return d.Time.Year() }
func (d Day) Month() time.Month { return d.Time.Month() }
func (d Day) DayOfMonth() int { return d.Time.Day() }
func (d Day) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Day) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Day) String() string { return d.Time.Format(DayFormat) }

// =============================================================================
// YEAR / MONTH METADATA
// =============================================================================

// YearData summarizes a calendar year.
type YearData struct {
	Days       int
	IsLeapYear bool
}

// IsLeapYear implements the Gregorian rule: divisible by 4 and
// (not divisible by 100 or divisible by 400).
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Year returns metadata for a year.
func Year(year int) YearData {
	days := 365
	leap := IsLeapYear(year)
	if leap {
		days = 366
	}
	return YearData{Days: days, IsLeapYear: leap}
}

// DaysInMonth returns the number of days in a month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartOfYear(year int) Day { return NewDay(year, time.January, 1) }
func EndOfYear(year int) Day { return NewDay(year, time.December, 31) }

func StartOfMonth(year int, month time.Month) Day { return NewDay(year, month, 1) }
func EndOfMonth(year int, month time.Month) Day {
	return NewDay(year, month, DaysInMonth(year, month))
}
