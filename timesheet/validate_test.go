package timesheet_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchcard/worklog/calendar"
	"github.com/punchcard/worklog/store/memory"
	"github.com/punchcard/worklog/timesheet"
)

// =============================================================================
// CREATE VALIDATION TESTS
// =============================================================================

func TestValidateCreate_DefaultsToWork(t *testing.T) {
	typ, err := timesheet.ValidateRequiredFieldsForCreate(timesheet.CreateEntryInput{
		UserID:    "u1",
		WorkDate:  calendar.NewDay(2025, 3, 10),
		StartTime: "08:00",
		EndTime:   "16:30",
	})
	require.NoError(t, err)
	assert.Equal(t, timesheet.TypeWork, typ)
}

func TestValidateCreate_MissingUser(t *testing.T) {
	_, err := timesheet.ValidateRequiredFieldsForCreate(timesheet.CreateEntryInput{
		WorkDate: calendar.NewDay(2025, 3, 10),
	})
	assert.True(t, timesheet.IsValidation(err))
}

func TestValidateCreate_MissingDate(t *testing.T) {
	_, err := timesheet.ValidateRequiredFieldsForCreate(timesheet.CreateEntryInput{
		UserID: "u1",
	})
	assert.True(t, timesheet.IsValidation(err))
}

func TestValidateCreate_WorkWithoutEndTime(t *testing.T) {
	// GIVEN: A work entry missing its end time
	// THEN: Validation error

	_, err := timesheet.ValidateRequiredFieldsForCreate(timesheet.CreateEntryInput{
		UserID:    "u1",
		WorkDate:  calendar.NewDay(2025, 3, 10),
		Type:      timesheet.TypeWork,
		StartTime: "08:00",
	})
	assert.True(t, timesheet.IsValidation(err))
}

func TestValidateCreate_VacationWithoutTimes(t *testing.T) {
	// Vacation needs no clock times.
	typ, err := timesheet.ValidateRequiredFieldsForCreate(timesheet.CreateEntryInput{
		UserID:   "u1",
		WorkDate: calendar.NewDay(2025, 3, 10),
		Type:     timesheet.TypeVacation,
	})
	require.NoError(t, err)
	assert.Equal(t, timesheet.TypeVacation, typ)
}

func TestValidateCreate_UnknownType(t *testing.T) {
	_, err := timesheet.ValidateRequiredFieldsForCreate(timesheet.CreateEntryInput{
		UserID:   "u1",
		WorkDate: calendar.NewDay(2025, 3, 10),
		Type:     "X",
	})
	assert.True(t, timesheet.IsValidation(err))
}

// =============================================================================
// UPDATE VALIDATION TESTS
// =============================================================================

func TestValidateUpdate_FallsBackToExistingTimes(t *testing.T) {
	// GIVEN: A work entry; the update only changes the break
	// THEN: The stored start/end satisfy the check

	existing := &timesheet.Entry{
		Type:      timesheet.TypeWork,
		StartTime: "08:00",
		EndTime:   "16:30",
	}
	brk := 45
	err := timesheet.ValidateFieldsForUpdate(timesheet.UpdateEntryInput{BreakMin: &brk}, existing)
	assert.NoError(t, err)
}

func TestValidateUpdate_ClearingEndTime_Rejected(t *testing.T) {
	existing := &timesheet.Entry{
		Type:      timesheet.TypeWork,
		StartTime: "08:00",
		EndTime:   "16:30",
	}
	empty := ""
	err := timesheet.ValidateFieldsForUpdate(timesheet.UpdateEntryInput{EndTime: &empty}, existing)
	assert.True(t, timesheet.IsValidation(err))
}

func TestValidateUpdate_SwitchToVacation_DropsTimeRequirement(t *testing.T) {
	existing := &timesheet.Entry{Type: timesheet.TypeWork, StartTime: "08:00", EndTime: "16:30"}
	vac := timesheet.TypeVacation
	err := timesheet.ValidateFieldsForUpdate(timesheet.UpdateEntryInput{Type: &vac}, existing)
	assert.NoError(t, err)
}

func TestRequiresTimeRecalculation(t *testing.T) {
	brk := 45
	project := "p1"

	assert.True(t, timesheet.UpdateEntryInput{BreakMin: &brk}.RequiresTimeRecalculation())
	assert.False(t, timesheet.UpdateEntryInput{ProjectID: &project}.RequiresTimeRecalculation())
	assert.False(t, timesheet.UpdateEntryInput{}.RequiresTimeRecalculation())
}

// =============================================================================
// REFERENCE VALIDATION TESTS
// =============================================================================

func TestValidateReferences(t *testing.T) {
	store := memory.New()
	store.AddProject("p-active", true)
	store.AddProject("p-closed", false)
	store.AddActivity("dev")
	refs := store.Repos().Refs
	ctx := context.Background()

	// Empty references are fine.
	assert.NoError(t, timesheet.ValidateReferences(ctx, refs, "", ""))

	// Active project and known activity pass.
	assert.NoError(t, timesheet.ValidateReferences(ctx, refs, "p-active", "dev"))

	// Inactive project is treated like a missing one.
	err := timesheet.ValidateReferences(ctx, refs, "p-closed", "")
	assert.True(t, timesheet.IsNotFound(err), "got %v", err)

	// Unknown activity.
	err = timesheet.ValidateReferences(ctx, refs, "", "qa")
	assert.True(t, timesheet.IsNotFound(err), "got %v", err)
}
