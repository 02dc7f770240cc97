package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/punchcard/worklog/calendar"
)

// =============================================================================
// EASTER COMPUTUS TESTS
// =============================================================================

func TestEaster_KnownDates(t *testing.T) {
	cases := []struct {
		year int
		want string
	}{
		{2024, "2024-03-31"},
		{2025, "2025-04-20"},
		{2026, "2026-04-05"},
		{2000, "2000-04-23"},
		{1999, "1999-04-04"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, calendar.Easter(c.year).String(), "Easter %d", c.year)
	}
}

// =============================================================================
// HOLIDAY SET TESTS
// =============================================================================

func TestHolidaysForYear_Nationwide(t *testing.T) {
	// GIVEN: Any valid state
	// THEN: The nine nationwide holidays are present

	hs := calendar.HolidaysForYear(2025, "HE")

	assert.True(t, hs.Contains(calendar.NewDay(2025, time.January, 1)), "Neujahr")
	assert.True(t, hs.Contains(calendar.NewDay(2025, time.April, 18)), "Karfreitag")
	assert.True(t, hs.Contains(calendar.NewDay(2025, time.April, 21)), "Ostermontag")
	assert.True(t, hs.Contains(calendar.NewDay(2025, time.May, 1)), "Tag der Arbeit")
	assert.True(t, hs.Contains(calendar.NewDay(2025, time.May, 29)), "Christi Himmelfahrt")
	assert.True(t, hs.Contains(calendar.NewDay(2025, time.June, 9)), "Pfingstmontag")
	assert.True(t, hs.Contains(calendar.NewDay(2025, time.October, 3)), "Tag der Deutschen Einheit")
	assert.True(t, hs.Contains(calendar.NewDay(2025, time.December, 25)), "1. Weihnachtstag")
	assert.True(t, hs.Contains(calendar.NewDay(2025, time.December, 26)), "2. Weihnachtstag")
}

func TestHolidaysForYear_StateSpecific(t *testing.T) {
	// Bavaria has Heilige Drei Koenige and Fronleichnam; Hamburg has
	// neither but observes Reformationstag.

	by := calendar.HolidaysForYear(2025, "BY")
	hh := calendar.HolidaysForYear(2025, "HH")

	epiphany := calendar.NewDay(2025, time.January, 6)
	fronleichnam := calendar.NewDay(2025, time.June, 19) // Easter + 60
	reformation := calendar.NewDay(2025, time.October, 31)

	assert.True(t, by.Contains(epiphany))
	assert.True(t, by.Contains(fronleichnam))
	assert.False(t, by.Contains(reformation))

	assert.False(t, hh.Contains(epiphany))
	assert.False(t, hh.Contains(fronleichnam))
	assert.True(t, hh.Contains(reformation))
}

func TestHolidaysForYear_BussUndBettag(t *testing.T) {
	// Saxony only; Wednesday before November 23.
	sn := calendar.HolidaysForYear(2025, "SN")
	assert.True(t, sn.Contains(calendar.NewDay(2025, time.November, 19)))

	by := calendar.HolidaysForYear(2025, "BY")
	assert.False(t, by.Contains(calendar.NewDay(2025, time.November, 19)))
}

func TestHolidaysForYear_UnknownState(t *testing.T) {
	// GIVEN: An empty or unknown state code
	// THEN: The set is empty, not an error

	assert.Empty(t, calendar.HolidaysForYear(2025, ""))
	assert.Empty(t, calendar.HolidaysForYear(2025, "XX"))
}

func TestIsValidState(t *testing.T) {
	assert.True(t, calendar.IsValidState("BW"))
	assert.True(t, calendar.IsValidState("TH"))
	assert.False(t, calendar.IsValidState("xx"))
	assert.False(t, calendar.IsValidState(""))
}

// =============================================================================
// CLASSIFICATION TESTS
// =============================================================================

func TestClassify_WeekendWinsOverHoliday(t *testing.T) {
	// GIVEN: A holiday that falls on a weekend
	// THEN: It classifies as weekend, so generation stats partition cleanly

	hs := calendar.HolidaysForYear(2027, "HE")
	christmas := calendar.NewDay(2027, time.December, 25) // a Saturday

	assert.True(t, hs.Contains(christmas))
	assert.Equal(t, calendar.ClassWeekend, hs.Classify(christmas))
}

func TestClassify_Buckets(t *testing.T) {
	hs := calendar.HolidaysForYear(2025, "HE")

	assert.Equal(t, calendar.ClassHoliday, hs.Classify(calendar.NewDay(2025, time.May, 1))) // Thursday
	assert.Equal(t, calendar.ClassWeekend, hs.Classify(calendar.NewDay(2025, time.May, 3))) // Saturday
	assert.Equal(t, calendar.ClassWorkday, hs.Classify(calendar.NewDay(2025, time.May, 2))) // Friday
}
