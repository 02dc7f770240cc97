/*
commands.go - One orchestration entry point per use case

PURPOSE:
  Commands tie validators, services, strategies, and repositories
  together for a single use case and shape the result for the caller.
  Each command takes a transaction-scoped Repos bundle; the transport
  layer supplies it via Store.WithTx so one request is one transaction.

ERROR POLICY:
  Validators and services fail fast. Commands attach error kinds at the
  boundary and never swallow failures, except for the deliberate no-op
  idempotent paths (already Done, already Released).
*/
package timesheet

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/punchcard/worklog/calendar"
)

// Commands is the use-case surface exposed to handlers.
type Commands struct {
	// Now is the clock; overridable in tests.
	Now func() time.Time

	// StateCode is the configured federal state for holiday lookups.
	StateCode string
}

func NewCommands(stateCode string) *Commands {
	return &Commands{Now: time.Now, StateCode: stateCode}
}

// =============================================================================
// INPUTS
// =============================================================================

type CreateEntryInput struct {
	UserID       string
	WorkDate     calendar.Day
	Type         EntryType
	StartTime    string
	EndTime      string
	BreakMin     int
	ProjectID    string
	ActivityCode string
	TravelType   string
	WorkLocation string
}

// UpdateEntryInput carries only the fields the caller wants to change.
type UpdateEntryInput struct {
	UserID       *string
	Type         *EntryType
	StartTime    *string
	EndTime      *string
	BreakMin     *int
	ProjectID    *string
	ActivityCode *string
	TravelType   *string
	WorkLocation *string
}

// =============================================================================
// CREATE / UPDATE / DELETE
// =============================================================================

// CreateEntry validates and persists a single new entry.
// A second entry for the same (user, date) is a conflict.
func (c *Commands) CreateEntry(ctx context.Context, r Repos, in CreateEntryInput) (*Entry, error) {
	typ, err := ValidateRequiredFieldsForCreate(in)
	if err != nil {
		return nil, err
	}
	if err := ValidateReferences(ctx, r.Refs, in.ProjectID, in.ActivityCode); err != nil {
		return nil, err
	}

	existing, err := r.Entries.FindByUserAndDate(ctx, in.UserID, in.WorkDate)
	if err != nil {
		return nil, Unexpected("checking for existing entry", err)
	}
	if existing != nil {
		return nil, Conflictf("entry for %s already exists", in.WorkDate)
	}

	defaults, err := r.Customizing.EntryDefaults(ctx)
	if err != nil {
		return nil, Unexpected("loading entry defaults", err)
	}

	now := c.Now()
	entry := Entry{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		WorkDate:     in.WorkDate,
		Type:         typ,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		BreakMin:     in.BreakMin,
		StatusCode:   defaults.OpenCode,
		ProjectID:    in.ProjectID,
		ActivityCode: in.ActivityCode,
		TravelType:   in.TravelType,
		WorkLocation: in.WorkLocation,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := Recalculate(&entry); err != nil {
		return nil, err
	}

	if err := r.Entries.Insert(ctx, entry); err != nil {
		// The store's uniqueness constraint closes the race window the
		// read-then-check above leaves open.
		if IsConflict(err) {
			return nil, err
		}
		return nil, Unexpected("inserting entry", err)
	}
	return &entry, nil
}

// UpdateEntry applies a partial update to an existing entry and re-runs
// the time calculation when a time-relevant field changed.
func (c *Commands) UpdateEntry(ctx context.Context, r Repos, entryID string, in UpdateEntryInput) (*Entry, error) {
	if entryID == "" {
		return nil, Validationf("entry ID is required")
	}
	entry, err := r.Entries.FindByID(ctx, entryID)
	if err != nil {
		return nil, Unexpected("loading entry", err)
	}
	if entry == nil {
		return nil, NotFoundf("entry %q not found", entryID)
	}

	if err := ValidateFieldsForUpdate(in, entry); err != nil {
		return nil, err
	}

	project := entry.ProjectID
	if in.ProjectID != nil {
		project = *in.ProjectID
	}
	activity := entry.ActivityCode
	if in.ActivityCode != nil {
		activity = *in.ActivityCode
	}
	if err := ValidateReferences(ctx, r.Refs, project, activity); err != nil {
		return nil, err
	}

	applyUpdate(entry, in)
	entry.ProjectID = project
	entry.ActivityCode = activity
	entry.UpdatedAt = c.Now()

	if in.RequiresTimeRecalculation() {
		if err := Recalculate(entry); err != nil {
			return nil, err
		}
	}

	if err := r.Entries.Update(ctx, *entry); err != nil {
		// Moving the entry onto another user/day can trip the same
		// uniqueness constraint as an insert.
		if IsConflict(err) || IsNotFound(err) {
			return nil, err
		}
		return nil, Unexpected("updating entry", err)
	}
	return entry, nil
}

func applyUpdate(e *Entry, in UpdateEntryInput) {
	if in.UserID != nil {
		e.UserID = *in.UserID
	}
	if in.Type != nil {
		e.Type = *in.Type
	}
	if in.StartTime != nil {
		e.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		e.EndTime = *in.EndTime
	}
	if in.BreakMin != nil {
		e.BreakMin = *in.BreakMin
	}
	if in.TravelType != nil {
		e.TravelType = *in.TravelType
	}
	if in.WorkLocation != nil {
		e.WorkLocation = *in.WorkLocation
	}
}

// DeleteEntry is rejected unconditionally. Entries are never deleted.
func (c *Commands) DeleteEntry(ctx context.Context, r Repos, entryID string) error {
	return &Error{Kind: KindConflict, Message: ErrDeleteNotAllowed.Error(), Err: ErrDeleteNotAllowed}
}

// =============================================================================
// GENERATION
// =============================================================================

// GenerateMonthly bulk-creates the missing workday entries of a month.
func (c *Commands) GenerateMonthly(ctx context.Context, r Repos, userID string, year int, month time.Month) (*GenerationResult, error) {
	return NewMonthlyStrategy(r, c.Now).Generate(ctx, userID, year, month)
}

// GenerateYearly bulk-creates the missing workday and holiday entries
// of a year for the given federal state.
func (c *Commands) GenerateYearly(ctx context.Context, r Repos, userID string, year int, stateCode string) (*GenerationResult, error) {
	return NewYearlyStrategy(r, c.Now).Generate(ctx, userID, year, stateCode)
}

// GetDefaultParams returns the generation defaults: current period,
// configured state, and the customized status codes.
func (c *Commands) GetDefaultParams(ctx context.Context, r Repos) (*DefaultParams, error) {
	defaults, err := r.Customizing.EntryDefaults(ctx)
	if err != nil {
		return nil, Unexpected("loading entry defaults", err)
	}
	now := c.Now()
	return &DefaultParams{
		Year:         now.Year(),
		Month:        now.Month(),
		StateCode:    c.StateCode,
		OpenCode:     defaults.OpenCode,
		DoneCode:     defaults.DoneCode,
		ReleasedCode: defaults.ReleasedCode,
	}, nil
}

// =============================================================================
// STATUS TRANSITIONS
// =============================================================================

func (c *Commands) MarkDone(ctx context.Context, r Repos, entryID string) (*Entry, error) {
	return NewTransitioner(r).MarkDone(ctx, entryID)
}

func (c *Commands) Release(ctx context.Context, r Repos, entryID string) (*Entry, error) {
	return NewTransitioner(r).Release(ctx, entryID)
}

// =============================================================================
// BALANCES
// =============================================================================

func (c *Commands) VacationBalance(ctx context.Context, r Repos, userID string, year int) (*VacationBalance, error) {
	if year == 0 {
		year = c.Now().Year()
	}
	return NewBalanceService(r).Vacation(ctx, userID, year)
}

func (c *Commands) SickLeaveBalance(ctx context.Context, r Repos, userID string, year int) (*SickLeaveBalance, error) {
	if year == 0 {
		year = c.Now().Year()
	}
	return NewBalanceService(r).SickLeave(ctx, userID, year)
}

func (c *Commands) MonthSummary(ctx context.Context, r Repos, userID string, year int, month time.Month) (*MonthSummary, error) {
	if year == 0 || month == 0 {
		now := c.Now()
		year, month = now.Year(), now.Month()
	}
	return NewBalanceService(r).Month(ctx, userID, year, month)
}
