/*
handlers.go - HTTP API handlers for the work log system

PURPOSE:
  Exposes the time-tracking engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Entries:
    POST   /api/entries                  Create a single entry
    GET    /api/entries/{id}             Get an entry
    PUT    /api/entries/{id}             Update an entry
    DELETE /api/entries/{id}             Always rejected (409)
    POST   /api/entries/{id}/done        Mark done
    POST   /api/entries/{id}/release     Release

  Generation:
    POST   /api/users/{id}/generate/monthly  Fill a month with work entries
    POST   /api/users/{id}/generate/yearly   Fill a year (holiday-aware)

  Balances:
    GET    /api/users/{id}/balances/vacation?year=
    GET    /api/users/{id}/balances/sick?year=
    GET    /api/users/{id}/summary?year=&month=
    GET    /api/users/{id}/entries?from=&to=

  Reference data:
    GET    /api/statuses
    GET    /api/defaults

REQUEST FLOW:
  1. Parse HTTP request
  2. Open one store transaction
  3. Call domain logic through the transaction-scoped repositories
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate day, forbidden transition, delete)
  - 500: Internal errors
  The domain error kind decides the status code.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - timesheet/commands.go: Domain entry points
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/punchcard/worklog/calendar"
	"github.com/punchcard/worklog/timesheet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    timesheet.Store
	Commands *timesheet.Commands
}

// NewHandler creates a new handler with the given store and commands.
func NewHandler(store timesheet.Store, commands *timesheet.Commands) *Handler {
	return &Handler{Store: store, Commands: commands}
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// CreateEntry creates a single time entry.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var workDate calendar.Day
	if req.WorkDate != "" {
		var err error
		workDate, err = calendar.ParseDay(req.WorkDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid work_date format (use YYYY-MM-DD)", err)
			return
		}
	}

	in := timesheet.CreateEntryInput{
		UserID:       req.UserID,
		WorkDate:     workDate,
		Type:         timesheet.EntryType(req.Type),
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		BreakMin:     req.BreakMin,
		ProjectID:    req.ProjectID,
		ActivityCode: req.ActivityCode,
		TravelType:   req.TravelType,
		WorkLocation: req.WorkLocation,
	}

	var entry *timesheet.Entry
	err := h.Store.WithTx(r.Context(), func(repos timesheet.Repos) error {
		var err error
		entry, err = h.Commands.CreateEntry(r.Context(), repos, in)
		return err
	})
	if err != nil {
		writeDomainError(w, "Failed to create entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEntryDTO(*entry))
}

// GetEntry returns a single entry.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var entry *timesheet.Entry
	err := h.Store.WithTx(r.Context(), func(repos timesheet.Repos) error {
		var err error
		entry, err = repos.Entries.FindByID(r.Context(), id)
		return err
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get entry", err)
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "Entry not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toEntryDTO(*entry))
}

// UpdateEntry patches an existing entry.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in := timesheet.UpdateEntryInput{
		UserID:       req.UserID,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		BreakMin:     req.BreakMin,
		ProjectID:    req.ProjectID,
		ActivityCode: req.ActivityCode,
		TravelType:   req.TravelType,
		WorkLocation: req.WorkLocation,
	}
	if req.Type != nil {
		t := timesheet.EntryType(*req.Type)
		in.Type = &t
	}

	var entry *timesheet.Entry
	err := h.Store.WithTx(r.Context(), func(repos timesheet.Repos) error {
		var err error
		entry, err = h.Commands.UpdateEntry(r.Context(), repos, id, in)
		return err
	})
	if err != nil {
		writeDomainError(w, "Failed to update entry", err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryDTO(*entry))
}

// DeleteEntry rejects every delete. Entries are corrected by update,
// never removed.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.Store.WithTx(r.Context(), func(repos timesheet.Repos) error {
		return h.Commands.DeleteEntry(r.Context(), repos, id)
	})
	writeDomainError(w, "Failed to delete entry", err)
}

// ListEntries returns a user's entries in a date range.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	from, err := calendar.ParseDay(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := calendar.ParseDay(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}

	var entries []timesheet.Entry
	err = h.Store.WithTx(r.Context(), func(repos timesheet.Repos) error {
		var err error
		entries, err = repos.Entries.FindByUserAndDateRange(r.Context(), userID, from, to)
		return err
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// =============================================================================
// STATUS TRANSITION HANDLERS
// =============================================================================

// MarkDone transitions an entry to the done status.
func (h *Handler) MarkDone(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Commands.MarkDone)
}

// Release transitions an entry to the released status.
func (h *Handler) Release(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Commands.Release)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, repos timesheet.Repos, id string) (*timesheet.Entry, error)) {
	id := chi.URLParam(r, "id")

	var entry *timesheet.Entry
	err := h.Store.WithTx(r.Context(), func(repos timesheet.Repos) error {
		var err error
		entry, err = fn(r.Context(), repos, id)
		return err
	})
	if err != nil {
		writeDomainError(w, "Failed to change status", err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryDTO(*entry))
}

// =============================================================================
// GENERATION HANDLERS
// =============================================================================

// GenerateMonthly fills a user's month with work entries for every
// workday that has none yet.
func (h *Handler) GenerateMonthly(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req GenerateRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var result *timesheet.GenerationResult
	err := h.Store.WithTx(r.Context(), func(repos timesheet.Repos) error {
		var err error
		result, err = h.Commands.GenerateMonthly(r.Context(), repos, userID, req.Year, time.Month(req.Month))
		return err
	})
	if err != nil {
		writeDomainError(w, "Failed to generate entries", err)
		return
	}

	writeJSON(w, http.StatusOK, toGenerationResultDTO(result))
}

// GenerateYearly fills a user's year, recording public holidays of the
// configured federal state and skipping weekends.
func (h *Handler) GenerateYearly(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req GenerateRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	state := req.State
	if state == "" {
		state = h.Commands.StateCode
	}

	var result *timesheet.GenerationResult
	err := h.Store.WithTx(r.Context(), func(repos timesheet.Repos) error {
		var err error
		result, err = h.Commands.GenerateYearly(r.Context(), repos, userID, req.Year, state)
		return err
	})
	if err != nil {
		writeDomainError(w, "Failed to generate entries", err)
		return
	}

	writeJSON(w, http.StatusOK, toGenerationResultDTO(result))
}

// =============================================================================
// BALANCE HANDLERS
// =============================================================================

// GetVacationBalance returns the vacation balance for a user and year.
func (h *Handler) GetVacationBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	year := queryInt(r, "year")

	var balance *timesheet.VacationBalance
	err := h.Store.WithTx(r.Context(), func(repos timesheet.Repos) error {
		var err error
		balance, err = h.Commands.VacationBalance(r.Context(), repos, userID, year)
		return err
	})
	if err != nil {
		writeDomainError(w, "Failed to get vacation balance", err)
		return
	}

	writeJSON(w, http.StatusOK, VacationBalanceDTO{
		UserID:        balance.UserID,
		Year:          balance.Year,
		TotalDays:     balance.TotalDays.String(),
		TakenDays:     balance.TakenDays.String(),
		RemainingDays: balance.RemainingDays.String(),
		Criticality:   balance.Criticality,
	})
}

// GetSickLeaveBalance returns the sick-leave tally for a user and year.
func (h *Handler) GetSickLeaveBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	year := queryInt(r, "year")

	var balance *timesheet.SickLeaveBalance
	err := h.Store.WithTx(r.Context(), func(repos timesheet.Repos) error {
		var err error
		balance, err = h.Commands.SickLeaveBalance(r.Context(), repos, userID, year)
		return err
	})
	if err != nil {
		writeDomainError(w, "Failed to get sick leave balance", err)
		return
	}

	writeJSON(w, http.StatusOK, SickLeaveBalanceDTO{
		UserID:      balance.UserID,
		Year:        balance.Year,
		TotalDays:   balance.TotalDays,
		Criticality: balance.Criticality,
	})
}

// GetMonthSummary returns hour and day aggregates for a user's month.
func (h *Handler) GetMonthSummary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	year := queryInt(r, "year")
	month := queryInt(r, "month")

	var summary *timesheet.MonthSummary
	err := h.Store.WithTx(r.Context(), func(repos timesheet.Repos) error {
		var err error
		summary, err = h.Commands.MonthSummary(r.Context(), repos, userID, year, time.Month(month))
		return err
	})
	if err != nil {
		writeDomainError(w, "Failed to get month summary", err)
		return
	}

	writeJSON(w, http.StatusOK, MonthSummaryDTO{
		UserID:        summary.UserID,
		Year:          summary.Year,
		Month:         int(summary.Month),
		WorkedHours:   summary.WorkedHours.String(),
		OvertimeHours: summary.OvertimeHours.String(),
		WorkDays:      summary.WorkDays,
		VacationDays:  summary.VacationDays,
		SickDays:      summary.SickDays,
		HolidayDays:   summary.HolidayDays,
	})
}

// =============================================================================
// REFERENCE DATA HANDLERS
// =============================================================================

// ListStatuses returns all configured lifecycle statuses.
func (h *Handler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	var statuses []timesheet.Status
	err := h.Store.WithTx(r.Context(), func(repos timesheet.Repos) error {
		var err error
		statuses, err = repos.Statuses.FindAll(r.Context())
		return err
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list statuses", err)
		return
	}

	dtos := make([]StatusDTO, len(statuses))
	for i, st := range statuses {
		dtos[i] = StatusDTO{
			Code:         st.Code,
			Label:        st.Label,
			AllowDone:    st.AllowDone,
			AllowRelease: st.AllowRelease,
			ToCode:       st.ToCode,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDefaults returns generation defaults for client forms.
func (h *Handler) GetDefaults(w http.ResponseWriter, r *http.Request) {
	var params *timesheet.DefaultParams
	err := h.Store.WithTx(r.Context(), func(repos timesheet.Repos) error {
		var err error
		params, err = h.Commands.GetDefaultParams(r.Context(), repos)
		return err
	})
	if err != nil {
		writeDomainError(w, "Failed to get defaults", err)
		return
	}

	writeJSON(w, http.StatusOK, DefaultParamsDTO{
		Year:         params.Year,
		Month:        int(params.Month),
		StateCode:    params.StateCode,
		OpenCode:     params.OpenCode,
		DoneCode:     params.DoneCode,
		ReleasedCode: params.ReleasedCode,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

// decodeOptionalBody decodes JSON when a body is present; an empty
// body leaves dst zero-valued.
func decodeOptionalBody(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps the domain error kind to an HTTP status.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, timesheet.CodeOf(err), message, err)
}
