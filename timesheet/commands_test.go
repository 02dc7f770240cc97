package timesheet_test

import (
	"context"
	"errors"
	"testing"
	"time"

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

func newCommandFixture(t *testing.T) (*memory.Store, *timesheet.Commands) {
	t.Helper()
	store := memory.New()
	store.AddUser(timesheet.User{ID: "emp-1", DisplayName: "Erika M."})
	store.AddStatus(timesheet.Status{Code: "O", Label: "Open", AllowDone: true})
	store.AddStatus(timesheet.Status{Code: "D", Label: "Done", AllowRelease: true, ToCode: "R"})
	store.AddStatus(timesheet.Status{Code: "R", Label: "Released"})
	store.SetEntryDefaults(timesheet.EntryDefaults{OpenCode: "O", DoneCode: "D", ReleasedCode: "R"})
	store.SetSickLeaveSettings(timesheet.SickLeaveSettings{WarningDays: 10, CriticalDays: 20})
	store.AddProject("p1", true)
	store.AddActivity("dev")

	commands := timesheet.NewCommands("BY")
	commands.Now = func() time.Time {
		return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
	return store, commands
}

func workInput(date calendar.Day) timesheet.CreateEntryInput {
	return timesheet.CreateEntryInput{
		UserID:    "emp-1",
		WorkDate:  date,
		Type:      timesheet.TypeWork,
		StartTime: "08:00",
		EndTime:   "16:30",
		BreakMin:  30,
	}
}

// =============================================================================
// CREATE TESTS
// =============================================================================

func TestCreateEntry_Work(t *testing.T) {
	store, commands := newCommandFixture(t)

	entry, err := commands.CreateEntry(context.Background(), store.Repos(),
		workInput(calendar.NewDay(2025, time.June, 2)))
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "O", entry.StatusCode)
	assert.True(t, entry.DurationHours.Equal(decimal.NewFromInt(8)))
	assert.True(t, entry.OvertimeHours.IsZero())
	assert.False(t, entry.CreatedAt.IsZero())

	// Persisted, not just returned.
	stored, err := store.Repos().Entries.FindByID(context.Background(), entry.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entry.WorkDate, stored.WorkDate)
}

func TestCreateEntry_SecondEntrySameDay_Conflict(t *testing.T) {
	// GIVEN: An existing entry for June 2
	// WHEN: Creating another entry for the same user and date
	// THEN: Conflict, regardless of entry type

	store, commands := newCommandFixture(t)
	ctx := context.Background()
	day := calendar.NewDay(2025, time.June, 2)

	_, err := commands.CreateEntry(ctx, store.Repos(), workInput(day))
	require.NoError(t, err)

	_, err = commands.CreateEntry(ctx, store.Repos(), timesheet.CreateEntryInput{
		UserID:   "emp-1",
		WorkDate: day,
		Type:     timesheet.TypeVacation,
	})
	assert.True(t, timesheet.IsConflict(err), "got %v", err)
}

func TestCreateEntry_SameDayDifferentUsers_OK(t *testing.T) {
	store, commands := newCommandFixture(t)
	store.AddUser(timesheet.User{ID: "emp-2"})
	ctx := context.Background()
	day := calendar.NewDay(2025, time.June, 2)

	_, err := commands.CreateEntry(ctx, store.Repos(), workInput(day))
	require.NoError(t, err)

	in := workInput(day)
	in.UserID = "emp-2"
	_, err = commands.CreateEntry(ctx, store.Repos(), in)
	assert.NoError(t, err)
}

func TestCreateEntry_UnknownProject(t *testing.T) {
	store, commands := newCommandFixture(t)

	in := workInput(calendar.NewDay(2025, time.June, 2))
	in.ProjectID = "nope"
	_, err := commands.CreateEntry(context.Background(), store.Repos(), in)
	assert.True(t, timesheet.IsNotFound(err), "got %v", err)
}

func TestCreateEntry_ErrorCodes(t *testing.T) {
	store, commands := newCommandFixture(t)
	ctx := context.Background()

	// Validation -> 400
	_, err := commands.CreateEntry(ctx, store.Repos(), timesheet.CreateEntryInput{})
	assert.Equal(t, 400, timesheet.CodeOf(err))

	// Reference miss -> 404
	in := workInput(calendar.NewDay(2025, time.June, 2))
	in.ActivityCode = "nope"
	_, err = commands.CreateEntry(ctx, store.Repos(), in)
	assert.Equal(t, 404, timesheet.CodeOf(err))

	// Duplicate -> 409
	_, err = commands.CreateEntry(ctx, store.Repos(), workInput(calendar.NewDay(2025, time.June, 2)))
	require.NoError(t, err)
	_, err = commands.CreateEntry(ctx, store.Repos(), workInput(calendar.NewDay(2025, time.June, 2)))
	assert.Equal(t, 409, timesheet.CodeOf(err))
}

// =============================================================================
// UPDATE TESTS
// =============================================================================

func TestUpdateEntry_RecalculatesOnTimeChange(t *testing.T) {
	// GIVEN: A standard 8h entry
	// WHEN: Extending the end time to 18:30
	// THEN: Duration 10h, overtime +2h

	store, commands := newCommandFixture(t)
	ctx := context.Background()

	entry, err := commands.CreateEntry(ctx, store.Repos(), workInput(calendar.NewDay(2025, time.June, 2)))
	require.NoError(t, err)

	end := "18:30"
	updated, err := commands.UpdateEntry(ctx, store.Repos(), entry.ID,
		timesheet.UpdateEntryInput{EndTime: &end})
	require.NoError(t, err)

	assert.True(t, updated.DurationHours.Equal(decimal.NewFromInt(10)), "duration = %s", updated.DurationHours)
	assert.True(t, updated.OvertimeHours.Equal(decimal.NewFromInt(2)))
}

func TestUpdateEntry_MetadataOnly_KeepsDuration(t *testing.T) {
	store, commands := newCommandFixture(t)
	ctx := context.Background()

	entry, err := commands.CreateEntry(ctx, store.Repos(), workInput(calendar.NewDay(2025, time.June, 2)))
	require.NoError(t, err)

	project := "p1"
	location := "office"
	updated, err := commands.UpdateEntry(ctx, store.Repos(), entry.ID,
		timesheet.UpdateEntryInput{ProjectID: &project, WorkLocation: &location})
	require.NoError(t, err)

	assert.Equal(t, "p1", updated.ProjectID)
	assert.Equal(t, "office", updated.WorkLocation)
	assert.True(t, updated.DurationHours.Equal(entry.DurationHours))
}

func TestUpdateEntry_SwitchToVacation_ClearsTimes(t *testing.T) {
	store, commands := newCommandFixture(t)
	ctx := context.Background()

	entry, err := commands.CreateEntry(ctx, store.Repos(), workInput(calendar.NewDay(2025, time.June, 2)))
	require.NoError(t, err)

	vac := timesheet.TypeVacation
	updated, err := commands.UpdateEntry(ctx, store.Repos(), entry.ID,
		timesheet.UpdateEntryInput{Type: &vac})
	require.NoError(t, err)

	assert.Equal(t, timesheet.TypeVacation, updated.Type)
	assert.Empty(t, updated.StartTime)
	assert.True(t, updated.DurationHours.IsZero())
}

func TestUpdateEntry_MoveToOccupiedDay_Conflict(t *testing.T) {
	// GIVEN: Entries for two users on the same day
	// WHEN: Reassigning the second entry to the first user
	// THEN: Conflict; the day already holds an entry for that user
	store, commands := newCommandFixture(t)
	store.AddUser(timesheet.User{ID: "emp-2", DisplayName: "Max M."})
	ctx := context.Background()
	day := calendar.NewDay(2025, time.June, 2)

	_, err := commands.CreateEntry(ctx, store.Repos(), workInput(day))
	require.NoError(t, err)

	in := workInput(day)
	in.UserID = "emp-2"
	moved, err := commands.CreateEntry(ctx, store.Repos(), in)
	require.NoError(t, err)

	target := "emp-1"
	_, err = commands.UpdateEntry(ctx, store.Repos(), moved.ID,
		timesheet.UpdateEntryInput{UserID: &target})
	require.Error(t, err)
	assert.True(t, timesheet.IsConflict(err), "got %v", err)
	assert.True(t, errors.Is(err, timesheet.ErrDuplicateDay))
	assert.Equal(t, 409, timesheet.CodeOf(err))

	// The losing update must not leave two entries on the day.
	entries, err := store.Repos().Entries.FindByUserAndDateRange(ctx, "emp-1", day, day)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	stored, err := store.Repos().Entries.FindByID(ctx, moved.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "emp-2", stored.UserID)
}

func TestUpdateEntry_Unknown(t *testing.T) {
	store, commands := newCommandFixture(t)

	_, err := commands.UpdateEntry(context.Background(), store.Repos(), "ghost", timesheet.UpdateEntryInput{})
	assert.True(t, timesheet.IsNotFound(err), "got %v", err)
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestDeleteEntry_AlwaysRejected(t *testing.T) {
	// Entries are never deleted, only corrected by update.
	store, commands := newCommandFixture(t)
	ctx := context.Background()

	entry, err := commands.CreateEntry(ctx, store.Repos(), workInput(calendar.NewDay(2025, time.June, 2)))
	require.NoError(t, err)

	err = commands.DeleteEntry(ctx, store.Repos(), entry.ID)
	assert.True(t, timesheet.IsConflict(err))
	assert.True(t, errors.Is(err, timesheet.ErrDeleteNotAllowed))

	// Still there.
	stored, err := store.Repos().Entries.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

// =============================================================================
// DEFAULT PARAMS TESTS
// =============================================================================

func TestGetDefaultParams(t *testing.T) {
	store, commands := newCommandFixture(t)

	params, err := commands.GetDefaultParams(context.Background(), store.Repos())
	require.NoError(t, err)

	assert.Equal(t, 2025, params.Year)
	assert.Equal(t, time.June, params.Month)
	assert.Equal(t, "BY", params.StateCode)
	assert.Equal(t, "O", params.OpenCode)
	assert.Equal(t, "D", params.DoneCode)
	assert.Equal(t, "R", params.ReleasedCode)
}

// =============================================================================
// BALANCE DEFAULTING TESTS
// =============================================================================

func TestVacationBalance_DefaultsToCurrentYear(t *testing.T) {
	store, commands := newCommandFixture(t)

	b, err := commands.VacationBalance(context.Background(), store.Repos(), "emp-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 2025, b.Year)
}
