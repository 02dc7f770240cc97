/*
timecalc.go - Derived time fields for a single entry

PURPOSE:
  Computes duration and overtime from raw start/end/break values.
  Work entries must span a positive net interval; non-work entries
  carry no clock times and a zero duration.

TIME REPRESENTATION:
  Clock times are HH:MM strings (24h). Durations are decimal hours so
  a 7h45m day is exactly 7.75, never a float approximation.
*/
package timesheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Standard working day, used for overtime and generated entries.
const (
	StandardDayHours = 8
	DefaultStartTime = "08:00"
	DefaultEndTime   = "16:30"
	DefaultBreakMin  = 30
)

var (
	standardDay  = decimal.NewFromInt(StandardDayHours)
	minutesPerHr = decimal.NewFromInt(60)
)

// ParseClock parses an HH:MM clock time into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q (expected HH:MM)", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in clock time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in clock time %q", s)
	}
	return h*60 + m, nil
}

// NetMinutes returns end - start - break in minutes.
func NetMinutes(start, end string, breakMin int) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return e - s - breakMin, nil
}

// Recalculate computes DurationHours and OvertimeHours on the entry.
// For work entries the end time must lie after the start time net of
// the break; violations surface as validation errors.
func Recalculate(e *Entry) error {
	if !e.Type.RequiresTimes() {
		e.StartTime = ""
		e.EndTime = ""
		e.BreakMin = 0
		e.DurationHours = decimal.Zero
		e.OvertimeHours = decimal.Zero
		return nil
	}

	net, err := NetMinutes(e.StartTime, e.EndTime, e.BreakMin)
	if err != nil {
		return Validationf("%v", err)
	}
	if net <= 0 {
		return Validationf("end time must be after start time net of break")
	}

	e.DurationHours = decimal.NewFromInt(int64(net)).Div(minutesPerHr)
	e.OvertimeHours = e.DurationHours.Sub(standardDay)
	return nil
}
