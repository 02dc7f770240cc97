/*
Package timesheet implements the time-tracking business core.

PURPOSE:
  Employees log one entry per calendar day (work, vacation, sick leave),
  bulk-generate entries for a month or year, and query vacation and
  sick-leave balances. This package holds the domain types, validators,
  calculation services, generation strategies, and status transitions.
  Persistence is behind the repository contracts in repo.go.

KEY CONCEPTS IN THIS FILE (types.go):
  - Entry: One user's record for one calendar day (unique per user+date)
  - EntryType: WORK, VACATION, SICK, HOLIDAY
  - Status: Master-data lifecycle state with transition capability flags
  - User, Customizing: Reference data the services depend on

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for durations and day balances
  2. One entry per (user, date), enforced in the application and the store
  3. Balances are pure aggregations, never persisted or cached

SEE ALSO:
  - repo.go: Repository contracts and the transaction capability
  - commands.go: One orchestration entry point per use case
*/
package timesheet

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/punchcard/worklog/calendar"
)

// =============================================================================
// ENTRY TYPES
// =============================================================================

type EntryType string

const (
	TypeWork     EntryType = "W"
	TypeVacation EntryType = "V"
	TypeSick     EntryType = "S"
	TypeHoliday  EntryType = "H"
)

// IsValid reports whether the code is a known entry type.
func (t EntryType) IsValid() bool {
	switch t {
	case TypeWork, TypeVacation, TypeSick, TypeHoliday:
		return true
	}
	return false
}

// RequiresTimes reports whether entries of this type must carry start
// and end times.
func (t EntryType) RequiresTimes() bool { return t == TypeWork }

// =============================================================================
// ENTRY - One calendar day's record for one user
// =============================================================================

type Entry struct {
	ID       string
	UserID   string
	WorkDate calendar.Day
	Type     EntryType

	// Clock times as HH:MM, empty for non-work entries.
	StartTime string
	EndTime   string
	BreakMin  int

	// Derived by the time calculation service.
	DurationHours decimal.Decimal
	OvertimeHours decimal.Decimal

	StatusCode string

	// Optional references
	ProjectID    string
	ActivityCode string
	TravelType   string
	WorkLocation string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// STATUS - Master data driving the transition policy
// =============================================================================

// Status is a configured lifecycle state. A transition is legal only if
// the capability flag for the requested action is set AND ToCode is
// either empty or equals the requested target.
type Status struct {
	Code         string
	Label        string
	AllowDone    bool
	AllowRelease bool

	// ToCode restricts the single next status reachable from this one.
	// Empty means unrestricted.
	ToCode string
}

// =============================================================================
// USER
// =============================================================================

type User struct {
	ID          string
	DisplayName string

	// AnnualVacationDays of zero means "not configured".
	AnnualVacationDays decimal.Decimal
}

// DefaultAnnualVacationDays applies when a user has no configured value.
var DefaultAnnualVacationDays = decimal.NewFromInt(30)

// VacationAllowance returns the configured annual vacation days,
// falling back to the default.
func (u User) VacationAllowance() decimal.Decimal {
	if u.AnnualVacationDays.IsZero() {
		return DefaultAnnualVacationDays
	}
	return u.AnnualVacationDays
}

// =============================================================================
// CUSTOMIZING - Singleton reference data
// =============================================================================

// EntryDefaults holds the configured status codes for the entry lifecycle.
type EntryDefaults struct {
	OpenCode     string
	DoneCode     string
	ReleasedCode string
}

// SickLeaveSettings holds the criticality thresholds for sick-leave balances.
type SickLeaveSettings struct {
	WarningDays  int
	CriticalDays int
}

// =============================================================================
// BALANCES - Derived, never persisted
// =============================================================================

// Vacation balance criticality tiers, by remaining days.
const (
	VacationCritical = 1 // remaining < 5
	VacationWarning  = 2 // remaining < 10
	VacationHealthy  = 3
)

type VacationBalance struct {
	UserID        string
	Year          int
	TotalDays     decimal.Decimal
	TakenDays     decimal.Decimal
	RemainingDays decimal.Decimal
	Criticality   int
}

// Sick-leave criticality tiers, by total sick days against customizing.
const (
	SickHealthy  = 0
	SickWarning  = 1 // total > warningDays
	SickCritical = 2 // total > criticalDays
)

type SickLeaveBalance struct {
	UserID      string
	Year        int
	TotalDays   int
	Criticality int
}

// MonthSummary aggregates one user's month of entries.
type MonthSummary struct {
	UserID        string
	Year          int
	Month         time.Month
	WorkedHours   decimal.Decimal
	OvertimeHours decimal.Decimal
	WorkDays      int
	VacationDays  int
	SickDays      int
	HolidayDays   int
}

// =============================================================================
// GENERATION RESULTS
// =============================================================================

// GenerationStats counts the outcome of one generation run.
// Total is the number of calendar days in the period; Workdays,
// Weekends, and Holidays partition it (yearly strategy only).
type GenerationStats struct {
	Generated int
	Total     int
	Workdays  int
	Weekends  int
	Holidays  int
}

// GenerationResult carries all entries covering the period after the
// run (pre-existing plus newly inserted), ordered by date.
type GenerationResult struct {
	Entries []Entry
	Stats   GenerationStats
}

// DefaultParams are the generation defaults handed to callers.
type DefaultParams struct {
	Year         int
	Month        time.Month
	StateCode    string
	OpenCode     string
	DoneCode     string
	ReleasedCode string
}
