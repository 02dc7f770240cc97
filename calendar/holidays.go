/*
holidays.go - Public holiday sets per German federal state

PURPOSE:
  Computes the public holidays of a year for a German federal state,
  combining the nationwide fixed holidays with the movable feasts derived
  from Easter and the state-specific additions.

STATE CODES:
  Standard two-letter codes (BW, BY, BE, BB, HB, HH, HE, MV, NI, NW,
  RP, SL, SN, ST, SH, TH). An unknown or empty code yields an empty
  holiday set; callers that want strictness must validate upstream.

EASTER:
  Easter Sunday is computed with the anonymous Gregorian computus
  (Meeus/Jones/Butcher). All movable feasts are offsets from it.

SEE ALSO:
  - calendar.go: Day type and year metadata
*/
package calendar

import "time"

// DayClass classifies a calendar date for entry generation.
type DayClass int

const (
	ClassWorkday DayClass = iota
	ClassWeekend
	ClassHoliday
)

func (c DayClass) String() string {
	switch c {
	case ClassWeekend:
		return "weekend"
	case ClassHoliday:
		return "holiday"
	default:
		return "workday"
	}
}

// HolidaySet is the set of public holidays for one year and state.
type HolidaySet map[Day]string

// Contains reports whether the day is a holiday in the set.
func (hs HolidaySet) Contains(d Day) bool {
	_, ok := hs[d]
	return ok
}

// Classify buckets a day into workday, weekend, or holiday.
// Weekend wins over holiday so stats partition cleanly.
func (hs HolidaySet) Classify(d Day) DayClass {
	if d.IsWeekend() {
		return ClassWeekend
	}
	if hs.Contains(d) {
		return ClassHoliday
	}
	return ClassWorkday
}

// Easter returns Easter Sunday for a year (Gregorian computus).
func Easter(year int) Day {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return NewDay(year, time.Month(month), day)
}

// validStates is the set of recognized federal state codes.
var validStates = map[string]bool{
	"BW": true, "BY": true, "BE": true, "BB": true, "HB": true, "HH": true,
	"HE": true, "MV": true, "NI": true, "NW": true, "RP": true, "SL": true,
	"SN": true, "ST": true, "SH": true, "TH": true,
}

// IsValidState reports whether the code names a German federal state.
func IsValidState(code string) bool { return validStates[code] }

// HolidaysForYear returns the public holidays of a year for a state.
// Unknown or empty state codes yield an empty set, not an error.
func HolidaysForYear(year int, state string) HolidaySet {
	if !validStates[state] {
		return HolidaySet{}
	}

	easter := Easter(year)
	hs := HolidaySet{}
	add := func(d Day, name string) { hs[d] = name }

	// Nationwide
	add(NewDay(year, time.January, 1), "Neujahr")
	add(easter.AddDays(-2), "Karfreitag")
	add(easter.AddDays(1), "Ostermontag")
	add(NewDay(year, time.May, 1), "Tag der Arbeit")
	add(easter.AddDays(39), "Christi Himmelfahrt")
	add(easter.AddDays(50), "Pfingstmontag")
	add(NewDay(year, time.October, 3), "Tag der Deutschen Einheit")
	add(NewDay(year, time.December, 25), "1. Weihnachtstag")
	add(NewDay(year, time.December, 26), "2. Weihnachtstag")

	switch state {
	case "BW", "BY", "ST":
		add(NewDay(year, time.January, 6), "Heilige Drei Koenige")
	}
	switch state {
	case "BW", "BY", "HE", "NW", "RP", "SL":
		add(easter.AddDays(60), "Fronleichnam")
	}
	switch state {
	case "BY", "SL":
		add(NewDay(year, time.August, 15), "Mariae Himmelfahrt")
	}
	switch state {
	case "BB", "HB", "HH", "MV", "NI", "SH", "SN", "ST", "TH":
		add(NewDay(year, time.October, 31), "Reformationstag")
	}
	switch state {
	case "BW", "BY", "NW", "RP", "SL":
		add(NewDay(year, time.November, 1), "Allerheiligen")
	}
	switch state {
	case "BE", "MV":
		add(NewDay(year, time.March, 8), "Internationaler Frauentag")
	}
	if state == "TH" {
		add(NewDay(year, time.September, 20), "Weltkindertag")
	}
	if state == "SN" {
		add(bussUndBettag(year), "Buss- und Bettag")
	}

	return hs
}

// bussUndBettag is the Wednesday before November 23.
func bussUndBettag(year int) Day {
	d := NewDay(year, time.November, 22)
	for d.Weekday() != time.Wednesday {
		d = d.AddDays(-1)
	}
	return d
}
