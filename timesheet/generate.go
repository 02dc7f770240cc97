/*
generate.go - Bulk entry generation for a month or a year

PURPOSE:
  Produces the calendar dates of a period that still need an entry and
  inserts them in one batch. A date is "covered" when ANY entry exists
  for (user, date), regardless of type; generation never creates a
  second entry for a date, so re-running a period is a no-op.

STRATEGIES:
  Monthly: fills missing workdays of one month with WORK entries.
           Weekends are skipped, never fabricated.
  Yearly:  classifies every day of the year as workday, weekend, or
           holiday (per federal state). Missing workdays get WORK
           entries, missing holidays are recorded as HOLIDAY entries,
           weekends are skipped.

PERFORMANCE:
  Existing dates are pre-fetched once with a single range query and the
  new entries inserted with a single batch call. A failed insert fails
  the whole run; nothing partial is committed.
*/
package timesheet

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/punchcard/worklog/calendar"
)

// =============================================================================
// MONTHLY STRATEGY
// =============================================================================

type MonthlyStrategy struct {
	r   Repos
	now func() time.Time
}

func NewMonthlyStrategy(r Repos, now func() time.Time) *MonthlyStrategy {
	return &MonthlyStrategy{r: r, now: now}
}

// Generate fills the missing workdays of the month with WORK entries.
// Year/month of zero default to the current month.
func (g *MonthlyStrategy) Generate(ctx context.Context, userID string, year int, month time.Month) (*GenerationResult, error) {
	if userID == "" {
		return nil, Validationf("user reference is required")
	}
	if year == 0 || month == 0 {
		now := g.now()
		year, month = now.Year(), now.Month()
	}

	from := calendar.StartOfMonth(year, month)
	to := calendar.EndOfMonth(year, month)

	covered, err := coveredDates(ctx, g.r.Entries, userID, from, to)
	if err != nil {
		return nil, err
	}
	defaults, err := g.r.Customizing.EntryDefaults(ctx)
	if err != nil {
		return nil, Unexpected("loading entry defaults", err)
	}

	stats := GenerationStats{Total: calendar.DaysInMonth(year, month)}
	var fresh []Entry
	for d := from; !d.After(to); d = d.AddDays(1) {
		if d.IsWeekend() || covered[d] {
			continue
		}
		e, err := newGeneratedEntry(userID, d, TypeWork, defaults.OpenCode, g.now())
		if err != nil {
			return nil, err
		}
		fresh = append(fresh, e)
	}

	return g.finish(ctx, userID, from, to, fresh, stats)
}

func (g *MonthlyStrategy) finish(ctx context.Context, userID string, from, to calendar.Day, fresh []Entry, stats GenerationStats) (*GenerationResult, error) {
	if len(fresh) > 0 {
		if err := g.r.Entries.InsertBatch(ctx, fresh); err != nil {
			return nil, Unexpected("inserting generated entries", err)
		}
	}
	stats.Generated = len(fresh)

	all, err := g.r.Entries.FindByUserAndDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, Unexpected("loading generated period", err)
	}
	return &GenerationResult{Entries: all, Stats: stats}, nil
}

// =============================================================================
// YEARLY STRATEGY
// =============================================================================

type YearlyStrategy struct {
	r   Repos
	now func() time.Time
}

func NewYearlyStrategy(r Repos, now func() time.Time) *YearlyStrategy {
	return &YearlyStrategy{r: r, now: now}
}

// Generate classifies every day of the year and fills the gaps:
// WORK entries for missing workdays, HOLIDAY entries for missing
// holidays of the given federal state, nothing for weekends.
// An empty or unknown state code means no holidays.
func (g *YearlyStrategy) Generate(ctx context.Context, userID string, year int, stateCode string) (*GenerationResult, error) {
	if userID == "" {
		return nil, Validationf("user reference is required")
	}
	if year == 0 {
		year = g.now().Year()
	}

	from := calendar.StartOfYear(year)
	to := calendar.EndOfYear(year)

	covered, err := coveredDates(ctx, g.r.Entries, userID, from, to)
	if err != nil {
		return nil, err
	}
	defaults, err := g.r.Customizing.EntryDefaults(ctx)
	if err != nil {
		return nil, Unexpected("loading entry defaults", err)
	}

	holidays := calendar.HolidaysForYear(year, stateCode)
	stats := GenerationStats{Total: calendar.Year(year).Days}

	var fresh []Entry
	for d := from; !d.After(to); d = d.AddDays(1) {
		var typ EntryType
		switch holidays.Classify(d) {
		case calendar.ClassWeekend:
			stats.Weekends++
			continue
		case calendar.ClassHoliday:
			stats.Holidays++
			typ = TypeHoliday
		default:
			stats.Workdays++
			typ = TypeWork
		}
		if covered[d] {
			continue
		}
		e, err := newGeneratedEntry(userID, d, typ, defaults.OpenCode, g.now())
		if err != nil {
			return nil, err
		}
		fresh = append(fresh, e)
	}

	if len(fresh) > 0 {
		if err := g.r.Entries.InsertBatch(ctx, fresh); err != nil {
			return nil, Unexpected("inserting generated entries", err)
		}
	}
	stats.Generated = len(fresh)

	all, err := g.r.Entries.FindByUserAndDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, Unexpected("loading generated period", err)
	}
	return &GenerationResult{Entries: all, Stats: stats}, nil
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// coveredDates pre-fetches all existing entry dates in the range with
// one query. One lookup per run, not one per day.
func coveredDates(ctx context.Context, entries EntryRepository, userID string, from, to calendar.Day) (map[calendar.Day]bool, error) {
	existing, err := entries.FindByUserAndDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, Unexpected("loading existing entries", err)
	}
	covered := make(map[calendar.Day]bool, len(existing))
	for _, e := range existing {
		covered[e.WorkDate] = true
	}
	return covered, nil
}

func newGeneratedEntry(userID string, date calendar.Day, typ EntryType, statusCode string, now time.Time) (Entry, error) {
	e := Entry{
		ID:         uuid.NewString(),
		UserID:     userID,
		WorkDate:   date,
		Type:       typ,
		StatusCode: statusCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if typ.RequiresTimes() {
		e.StartTime = DefaultStartTime
		e.EndTime = DefaultEndTime
		e.BreakMin = DefaultBreakMin
	}
	if err := Recalculate(&e); err != nil {
		return Entry{}, err
	}
	return e, nil
}
