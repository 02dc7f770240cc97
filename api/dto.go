/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Entries:
    EntryDTO, CreateEntryRequest, UpdateEntryRequest

  Generation:
    GenerateRequest, GenerationResultDTO

  Balances:
    VacationBalanceDTO, SickLeaveBalanceDTO, MonthSummaryDTO

  Misc:
    StatusDTO, DefaultParamsDTO, ErrorResponse

VALIDATION:
  Validation is done in the domain layer, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - timesheet/types.go: Domain model
*/
package api

import (
	"time"

	"github.com/punchcard/worklog/timesheet"
)

// =============================================================================
// ENTRY TYPES
// =============================================================================

// EntryDTO represents a time entry in API responses.
type EntryDTO struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	WorkDate      string `json:"work_date"`
	Type          string `json:"type"`
	StartTime     string `json:"start_time,omitempty"`
	EndTime       string `json:"end_time,omitempty"`
	BreakMin      int    `json:"break_min"`
	DurationHours string `json:"duration_hours"`
	OvertimeHours string `json:"overtime_hours"`
	StatusCode    string `json:"status_code"`
	ProjectID     string `json:"project_id,omitempty"`
	ActivityCode  string `json:"activity_code,omitempty"`
	TravelType    string `json:"travel_type,omitempty"`
	WorkLocation  string `json:"work_location,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

func toEntryDTO(e timesheet.Entry) EntryDTO {
	return EntryDTO{
		ID:            e.ID,
		UserID:        e.UserID,
		WorkDate:      e.WorkDate.String(),
		Type:          string(e.Type),
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		BreakMin:      e.BreakMin,
		DurationHours: e.DurationHours.String(),
		OvertimeHours: e.OvertimeHours.String(),
		StatusCode:    e.StatusCode,
		ProjectID:     e.ProjectID,
		ActivityCode:  e.ActivityCode,
		TravelType:    e.TravelType,
		WorkLocation:  e.WorkLocation,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.Format(time.RFC3339),
	}
}

func toEntryDTOs(entries []timesheet.Entry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	return dtos
}

// CreateEntryRequest is the request body for creating an entry.
type CreateEntryRequest struct {
	UserID       string `json:"user_id"`
	WorkDate     string `json:"work_date"`
	Type         string `json:"type,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	BreakMin     int    `json:"break_min,omitempty"`
	ProjectID    string `json:"project_id,omitempty"`
	ActivityCode string `json:"activity_code,omitempty"`
	TravelType   string `json:"travel_type,omitempty"`
	WorkLocation string `json:"work_location,omitempty"`
}

// UpdateEntryRequest carries only the fields the client sends.
// Absent fields stay untouched.
type UpdateEntryRequest struct {
	UserID       *string `json:"user_id,omitempty"`
	Type         *string `json:"type,omitempty"`
	StartTime    *string `json:"start_time,omitempty"`
	EndTime      *string `json:"end_time,omitempty"`
	BreakMin     *int    `json:"break_min,omitempty"`
	ProjectID    *string `json:"project_id,omitempty"`
	ActivityCode *string `json:"activity_code,omitempty"`
	TravelType   *string `json:"travel_type,omitempty"`
	WorkLocation *string `json:"work_location,omitempty"`
}

// =============================================================================
// GENERATION TYPES
// =============================================================================

// GenerateRequest parameterizes a bulk generation run. Zero year/month
// default to the current period; state defaults to the server setting.
type GenerateRequest struct {
	Year  int    `json:"year,omitempty"`
	Month int    `json:"month,omitempty"`
	State string `json:"state,omitempty"`
}

// GenerationStatsDTO counts the outcome of one generation run.
type GenerationStatsDTO struct {
	Generated int `json:"generated"`
	Total     int `json:"total"`
	Workdays  int `json:"workdays"`
	Weekends  int `json:"weekends"`
	Holidays  int `json:"holidays"`
}

// GenerationResultDTO is the response of a generation run.
type GenerationResultDTO struct {
	Entries []EntryDTO         `json:"entries"`
	Stats   GenerationStatsDTO `json:"stats"`
}

func toGenerationResultDTO(res *timesheet.GenerationResult) GenerationResultDTO {
	return GenerationResultDTO{
		Entries: toEntryDTOs(res.Entries),
		Stats: GenerationStatsDTO{
			Generated: res.Stats.Generated,
			Total:     res.Stats.Total,
			Workdays:  res.Stats.Workdays,
			Weekends:  res.Stats.Weekends,
			Holidays:  res.Stats.Holidays,
		},
	}
}

// =============================================================================
// BALANCE TYPES
// =============================================================================

// VacationBalanceDTO is the vacation balance response.
type VacationBalanceDTO struct {
	UserID        string `json:"user_id"`
	Year          int    `json:"year"`
	TotalDays     string `json:"total_days"`
	TakenDays     string `json:"taken_days"`
	RemainingDays string `json:"remaining_days"`
	Criticality   int    `json:"criticality"`
}

// SickLeaveBalanceDTO is the sick-leave balance response.
type SickLeaveBalanceDTO struct {
	UserID      string `json:"user_id"`
	Year        int    `json:"year"`
	TotalDays   int    `json:"total_days"`
	Criticality int    `json:"criticality"`
}

// MonthSummaryDTO aggregates one user's month.
type MonthSummaryDTO struct {
	UserID        string `json:"user_id"`
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	WorkedHours   string `json:"worked_hours"`
	OvertimeHours string `json:"overtime_hours"`
	WorkDays      int    `json:"work_days"`
	VacationDays  int    `json:"vacation_days"`
	SickDays      int    `json:"sick_days"`
	HolidayDays   int    `json:"holiday_days"`
}

// =============================================================================
// MISC TYPES
// =============================================================================

// StatusDTO represents a lifecycle status in API responses.
type StatusDTO struct {
	Code         string `json:"code"`
	Label        string `json:"label"`
	AllowDone    bool   `json:"allow_done"`
	AllowRelease bool   `json:"allow_release"`
	ToCode       string `json:"to_code,omitempty"`
}

// DefaultParamsDTO carries generation defaults for client forms.
type DefaultParamsDTO struct {
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	StateCode    string `json:"state_code"`
	OpenCode     string `json:"open_code"`
	DoneCode     string `json:"done_code"`
	ReleasedCode string `json:"released_code"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
