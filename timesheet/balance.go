/*
balance.go - Vacation, sick-leave, and monthly balance aggregation

PURPOSE:
  Answers "how much vacation is left?", "how many sick days so far?",
  and "how did this month go?". Balances are pure read-aggregations
  over current entries: recomputed on every query, never cached, so
  they are always consistent with the store at read time.

CRITICALITY TIERS:
  Vacation (by remaining days):  <5 critical (1), <10 warning (2), else 3
  Sick     (by total days):      >criticalDays (2), >warningDays (1), else 0
*/
package timesheet

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/punchcard/worklog/calendar"
)

var (
	vacationCriticalBelow = decimal.NewFromInt(5)
	vacationWarningBelow  = decimal.NewFromInt(10)
)

// BalanceService aggregates entries into balance summaries.
type BalanceService struct {
	r Repos
}

func NewBalanceService(r Repos) *BalanceService { return &BalanceService{r: r} }

// Vacation computes the vacation balance for a user and year.
// Remaining days may go negative; they are not clamped.
func (s *BalanceService) Vacation(ctx context.Context, userID string, year int) (*VacationBalance, error) {
	user, err := s.r.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, Unexpected("loading user", err)
	}
	if user == nil {
		return nil, NotFoundf("user %q not found", userID)
	}

	taken, err := s.r.Entries.FindByUserAndDateRangeAndType(ctx, userID,
		calendar.StartOfYear(year), calendar.EndOfYear(year), TypeVacation)
	if err != nil {
		return nil, Unexpected("loading vacation entries", err)
	}

	total := user.VacationAllowance()
	takenDays := decimal.NewFromInt(int64(len(taken)))
	remaining := total.Sub(takenDays)

	return &VacationBalance{
		UserID:        userID,
		Year:          year,
		TotalDays:     total,
		TakenDays:     takenDays,
		RemainingDays: remaining,
		Criticality:   vacationCriticality(remaining),
	}, nil
}

func vacationCriticality(remaining decimal.Decimal) int {
	switch {
	case remaining.LessThan(vacationCriticalBelow):
		return VacationCritical
	case remaining.LessThan(vacationWarningBelow):
		return VacationWarning
	default:
		return VacationHealthy
	}
}

// SickLeave computes the sick-leave balance for a user and year,
// classified against the customizing thresholds.
func (s *BalanceService) SickLeave(ctx context.Context, userID string, year int) (*SickLeaveBalance, error) {
	settings, err := s.r.Customizing.SickLeaveSettings(ctx)
	if err != nil {
		return nil, Unexpected("loading sick-leave settings", err)
	}

	entries, err := s.r.Entries.FindByUserAndDateRangeAndType(ctx, userID,
		calendar.StartOfYear(year), calendar.EndOfYear(year), TypeSick)
	if err != nil {
		return nil, Unexpected("loading sick entries", err)
	}

	total := len(entries)
	return &SickLeaveBalance{
		UserID:      userID,
		Year:        year,
		TotalDays:   total,
		Criticality: sickCriticality(total, settings),
	}, nil
}

func sickCriticality(total int, settings SickLeaveSettings) int {
	switch {
	case total > settings.CriticalDays:
		return SickCritical
	case total > settings.WarningDays:
		return SickWarning
	default:
		return SickHealthy
	}
}

// Month aggregates one user's entries for a month: worked hours,
// overtime, and day counts per entry type.
func (s *BalanceService) Month(ctx context.Context, userID string, year int, month time.Month) (*MonthSummary, error) {
	entries, err := s.r.Entries.FindByUserAndDateRange(ctx, userID,
		calendar.StartOfMonth(year, month), calendar.EndOfMonth(year, month))
	if err != nil {
		return nil, Unexpected("loading month entries", err)
	}

	sum := &MonthSummary{UserID: userID, Year: year, Month: month}
	for _, e := range entries {
		switch e.Type {
		case TypeWork:
			sum.WorkDays++
			sum.WorkedHours = sum.WorkedHours.Add(e.DurationHours)
			sum.OvertimeHours = sum.OvertimeHours.Add(e.OvertimeHours)
		case TypeVacation:
			sum.VacationDays++
		case TypeSick:
			sum.SickDays++
		case TypeHoliday:
			sum.HolidayDays++
		}
	}
	return sum, nil
}
