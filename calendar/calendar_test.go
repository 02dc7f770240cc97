package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchcard/worklog/calendar"
)

// =============================================================================
// LEAP YEAR TESTS
// =============================================================================

func TestIsLeapYear(t *testing.T) {
	// Gregorian rule: divisible by 4, except centuries, except every 400th.
	cases := []struct {
		year int
		leap bool
	}{
		{2024, true},
		{2023, false},
		{2000, true},  // divisible by 400
		{1900, false}, // century, not divisible by 400
		{2100, false},
		{1996, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.leap, calendar.IsLeapYear(c.year), "year %d", c.year)
	}
}

func TestYear_DayCount(t *testing.T) {
	// GIVEN: A leap year and a common year
	// THEN: 366 and 365 days respectively

	assert.Equal(t, 366, calendar.Year(2024).Days)
	assert.True(t, calendar.Year(2024).IsLeapYear)

	assert.Equal(t, 365, calendar.Year(2023).Days)
	assert.False(t, calendar.Year(2023).IsLeapYear)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, calendar.DaysInMonth(2024, time.February))
	assert.Equal(t, 28, calendar.DaysInMonth(2023, time.February))
	assert.Equal(t, 31, calendar.DaysInMonth(2024, time.January))
	assert.Equal(t, 30, calendar.DaysInMonth(2024, time.April))
	assert.Equal(t, 31, calendar.DaysInMonth(2024, time.December))
}

// =============================================================================
// DAY TESTS
// =============================================================================

func TestDay_Parse_RoundTrip(t *testing.T) {
	d, err := calendar.ParseDay("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", d.String())
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 10, d.DayOfMonth())
}

func TestDay_Parse_Invalid(t *testing.T) {
	_, err := calendar.ParseDay("10.03.2025")
	assert.Error(t, err)

	_, err = calendar.ParseDay("")
	assert.Error(t, err)
}

func TestDay_Ordering(t *testing.T) {
	a := calendar.NewDay(2025, time.March, 10)
	b := calendar.NewDay(2025, time.March, 11)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(calendar.NewDay(2025, time.March, 10)))
	assert.False(t, a.IsZero())
}

func TestDay_AddDays_CrossesMonthEnd(t *testing.T) {
	d := calendar.NewDay(2024, time.February, 28)
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
}

func TestDay_IsWeekend(t *testing.T) {
	// 2025-03-08 is a Saturday, 2025-03-09 a Sunday, 2025-03-10 a Monday.
	assert.True(t, calendar.NewDay(2025, time.March, 8).IsWeekend())
	assert.True(t, calendar.NewDay(2025, time.March, 9).IsWeekend())
	assert.False(t, calendar.NewDay(2025, time.March, 10).IsWeekend())
}

func TestDayOf_TruncatesClockTime(t *testing.T) {
	ts := time.Date(2025, time.June, 5, 17, 42, 13, 0, time.UTC)
	d := calendar.DayOf(ts)
	assert.Equal(t, "2025-06-05", d.String())
	assert.True(t, d.Equal(calendar.NewDay(2025, time.June, 5)))
}

// =============================================================================
// PERIOD BOUNDARY TESTS
// =============================================================================

func TestMonthBoundaries(t *testing.T) {
	assert.Equal(t, "2024-02-01", calendar.StartOfMonth(2024, time.February).String())
	assert.Equal(t, "2024-02-29", calendar.EndOfMonth(2024, time.February).String())
	assert.Equal(t, "2025-12-31", calendar.EndOfMonth(2025, time.December).String())
}

func TestYearBoundaries(t *testing.T) {
	assert.Equal(t, "2025-01-01", calendar.StartOfYear(2025).String())
	assert.Equal(t, "2025-12-31", calendar.EndOfYear(2025).String())
}
