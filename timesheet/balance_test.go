package timesheet_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchcard/worklog/calendar"
	"github.com/punchcard/worklog/store/memory"
	"github.com/punchcard/worklog/timesheet"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newBalanceFixture(t *testing.T) (*memory.Store, *timesheet.BalanceService) {
	t.Helper()
	store := memory.New()
	store.AddUser(timesheet.User{ID: "emp-1", DisplayName: "Erika M."})
	store.AddStatus(timesheet.Status{Code: "O", Label: "Open", AllowDone: true})
	store.SetEntryDefaults(timesheet.EntryDefaults{OpenCode: "O", DoneCode: "D", ReleasedCode: "R"})
	store.SetSickLeaveSettings(timesheet.SickLeaveSettings{WarningDays: 10, CriticalDays: 20})
	return store, timesheet.NewBalanceService(store.Repos())
}

// addDays inserts one entry per date of the given type.
func addDays(t *testing.T, store *memory.Store, userID string, typ timesheet.EntryType, dates ...calendar.Day) {
	t.Helper()
	repos := store.Repos()
	for _, d := range dates {
		e := timesheet.Entry{
			ID:         uuid.NewString(),
			UserID:     userID,
			WorkDate:   d,
			Type:       typ,
			StatusCode: "O",
		}
		if typ == timesheet.TypeWork {
			e.StartTime = "08:00"
			e.EndTime = "16:30"
			e.BreakMin = 30
			require.NoError(t, timesheet.Recalculate(&e))
		}
		require.NoError(t, repos.Entries.Insert(context.Background(), e))
	}
}

func datesInJune(days ...int) []calendar.Day {
	out := make([]calendar.Day, len(days))
	for i, d := range days {
		out[i] = calendar.NewDay(2025, time.June, d)
	}
	return out
}

// =============================================================================
// VACATION BALANCE TESTS
// =============================================================================

func TestVacation_DefaultAllowance(t *testing.T) {
	// GIVEN: A user with no configured allowance and 5 vacation days
	// THEN: 30 - 5 = 25 remaining, healthy

	store, svc := newBalanceFixture(t)
	addDays(t, store, "emp-1", timesheet.TypeVacation, datesInJune(2, 3, 4, 5, 6)...)

	b, err := svc.Vacation(context.Background(), "emp-1", 2025)
	require.NoError(t, err)

	assert.True(t, b.TotalDays.Equal(decimal.NewFromInt(30)))
	assert.True(t, b.TakenDays.Equal(decimal.NewFromInt(5)))
	assert.True(t, b.RemainingDays.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, timesheet.VacationHealthy, b.Criticality)
}

func TestVacation_CriticalityTiers(t *testing.T) {
	// Remaining < 5 is critical, < 10 is warning.
	cases := []struct {
		allowance int64
		taken     int
		want      int
	}{
		{30, 27, timesheet.VacationCritical}, // 3 left
		{30, 23, timesheet.VacationWarning},  // 7 left
		{30, 20, timesheet.VacationHealthy},  // 10 left (boundary)
		{30, 21, timesheet.VacationWarning},  // 9 left
		{30, 25, timesheet.VacationWarning},  // 5 left (boundary)
		{30, 26, timesheet.VacationCritical}, // 4 left
	}
	for _, c := range cases {
		store := memory.New()
		store.AddUser(timesheet.User{ID: "emp-1", AnnualVacationDays: decimal.NewFromInt(c.allowance)})
		store.AddStatus(timesheet.Status{Code: "O"})
		svc := timesheet.NewBalanceService(store.Repos())

		dates := make([]calendar.Day, c.taken)
		for i := range dates {
			dates[i] = calendar.StartOfYear(2025).AddDays(i)
		}
		addDays(t, store, "emp-1", timesheet.TypeVacation, dates...)

		b, err := svc.Vacation(context.Background(), "emp-1", 2025)
		require.NoError(t, err)
		assert.Equal(t, c.want, b.Criticality, "taken %d", c.taken)
	}
}

func TestVacation_OverdrawNotClamped(t *testing.T) {
	store := memory.New()
	store.AddUser(timesheet.User{ID: "emp-1", AnnualVacationDays: decimal.NewFromInt(2)})
	svc := timesheet.NewBalanceService(store.Repos())
	addDays(t, store, "emp-1", timesheet.TypeVacation, datesInJune(2, 3, 4)...)

	b, err := svc.Vacation(context.Background(), "emp-1", 2025)
	require.NoError(t, err)
	assert.True(t, b.RemainingDays.Equal(decimal.NewFromInt(-1)), "remaining = %s", b.RemainingDays)
	assert.Equal(t, timesheet.VacationCritical, b.Criticality)
}

func TestVacation_UnknownUser(t *testing.T) {
	_, svc := newBalanceFixture(t)
	_, err := svc.Vacation(context.Background(), "ghost", 2025)
	assert.True(t, timesheet.IsNotFound(err), "got %v", err)
}

func TestVacation_OnlyCountsRequestedYear(t *testing.T) {
	store, svc := newBalanceFixture(t)
	addDays(t, store, "emp-1", timesheet.TypeVacation,
		calendar.NewDay(2024, time.December, 30),
		calendar.NewDay(2025, time.January, 2),
	)

	b, err := svc.Vacation(context.Background(), "emp-1", 2025)
	require.NoError(t, err)
	assert.True(t, b.TakenDays.Equal(decimal.NewFromInt(1)))
}

// =============================================================================
// SICK LEAVE TESTS
// =============================================================================

func TestSickLeave_Tiers(t *testing.T) {
	// Thresholds: warning > 10, critical > 20.
	cases := []struct {
		days int
		want int
	}{
		{0, timesheet.SickHealthy},
		{10, timesheet.SickHealthy}, // boundary, not over
		{11, timesheet.SickWarning},
		{20, timesheet.SickWarning},
		{21, timesheet.SickCritical},
	}
	for _, c := range cases {
		store, svc := newBalanceFixture(t)
		dates := make([]calendar.Day, c.days)
		for i := range dates {
			dates[i] = calendar.StartOfYear(2025).AddDays(i)
		}
		addDays(t, store, "emp-1", timesheet.TypeSick, dates...)

		b, err := svc.SickLeave(context.Background(), "emp-1", 2025)
		require.NoError(t, err)
		assert.Equal(t, c.days, b.TotalDays)
		assert.Equal(t, c.want, b.Criticality, "days %d", c.days)
	}
}

// =============================================================================
// MONTH SUMMARY TESTS
// =============================================================================

func TestMonth_Aggregates(t *testing.T) {
	// GIVEN: Three work days, one vacation day, one sick day in June
	// THEN: 24h worked, zero overtime, day counts per type

	store, svc := newBalanceFixture(t)
	addDays(t, store, "emp-1", timesheet.TypeWork, datesInJune(2, 3, 4)...)
	addDays(t, store, "emp-1", timesheet.TypeVacation, datesInJune(5)...)
	addDays(t, store, "emp-1", timesheet.TypeSick, datesInJune(6)...)

	// An entry outside June must not count.
	addDays(t, store, "emp-1", timesheet.TypeWork, calendar.NewDay(2025, time.July, 1))

	sum, err := svc.Month(context.Background(), "emp-1", 2025, time.June)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.WorkDays)
	assert.Equal(t, 1, sum.VacationDays)
	assert.Equal(t, 1, sum.SickDays)
	assert.Equal(t, 0, sum.HolidayDays)
	assert.True(t, sum.WorkedHours.Equal(decimal.NewFromInt(24)), "worked = %s", sum.WorkedHours)
	assert.True(t, sum.OvertimeHours.IsZero())
}
