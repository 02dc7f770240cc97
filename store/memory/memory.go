// Package memory provides an in-memory store implementation
// (for testing/dev).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/punchcard/worklog/calendar"
	"github.com/punchcard/worklog/timesheet"
)

// =============================================================================
// MEMORY STORE - In-memory implementation of all repositories
// =============================================================================

type Store struct {
	mu sync.RWMutex

	entries   map[string]timesheet.Entry       // by entry ID
	byUserDay map[userDay]string               // (user, date) -> entry ID
	statuses  map[string]timesheet.Status      // by code
	users     map[string]timesheet.User        // by ID
	projects  map[string]bool                  // ID -> active
	activity  map[string]bool                  // code -> exists
	defaults  timesheet.EntryDefaults
	sick      timesheet.SickLeaveSettings
}

type userDay struct {
	UserID string
	Date   calendar.Day
}

func New() *Store {
	return &Store{
		entries:   make(map[string]timesheet.Entry),
		byUserDay: make(map[userDay]string),
		statuses:  make(map[string]timesheet.Status),
		users:     make(map[string]timesheet.User),
		projects:  make(map[string]bool),
		activity:  make(map[string]bool),
	}
}

// WithTx hands the full repository bundle to fn. The memory store has
// no rollback; batch atomicity comes from check-then-write under the
// lock inside each operation.
func (s *Store) WithTx(_ context.Context, fn func(timesheet.Repos) error) error {
	return fn(s.Repos())
}

// Repos returns the repository bundle backed by this store.
func (s *Store) Repos() timesheet.Repos {
	return timesheet.Repos{
		Entries:     (*entryRepo)(s),
		Statuses:    (*statusRepo)(s),
		Users:       (*userRepo)(s),
		Refs:        (*refRepo)(s),
		Customizing: (*customizingRepo)(s),
	}
}

// =============================================================================
// SEEDING - Reference data setup for tests and demos
// =============================================================================

func (s *Store) AddUser(u timesheet.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Store) AddStatus(st timesheet.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[st.Code] = st
}

func (s *Store) AddProject(id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[id] = active
}

func (s *Store) AddActivity(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity[code] = true
}

func (s *Store) SetEntryDefaults(d timesheet.EntryDefaults) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults = d
}

func (s *Store) SetSickLeaveSettings(c timesheet.SickLeaveSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sick = c
}

// =============================================================================
// ENTRY REPOSITORY
// =============================================================================

type entryRepo Store

func (r *entryRepo) FindByID(_ context.Context, id string) (*timesheet.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (r *entryRepo) FindByUserAndDate(_ context.Context, userID string, date calendar.Day) (*timesheet.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.byUserDay[userDay{userID, date}]; ok {
		e := r.entries[id]
		return &e, nil
	}
	return nil, nil
}

func (r *entryRepo) FindByUserAndDateRange(_ context.Context, userID string, from, to calendar.Day) ([]timesheet.Entry, error) {
	return r.rangeQuery(userID, from, to, "")
}

func (r *entryRepo) FindByUserAndDateRangeAndType(_ context.Context, userID string, from, to calendar.Day, typ timesheet.EntryType) ([]timesheet.Entry, error) {
	return r.rangeQuery(userID, from, to, typ)
}

func (r *entryRepo) rangeQuery(userID string, from, to calendar.Day, typ timesheet.EntryType) ([]timesheet.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []timesheet.Entry
	for _, e := range r.entries {
		if e.UserID != userID || e.WorkDate.Before(from) || e.WorkDate.After(to) {
			continue
		}
		if typ != "" && e.Type != typ {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkDate.Before(out[j].WorkDate) })
	return out, nil
}

func (r *entryRepo) Insert(_ context.Context, e timesheet.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(e)
}

func (r *entryRepo) InsertBatch(_ context.Context, entries []timesheet.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check all days first so the batch is all-or-nothing.
	seen := make(map[userDay]bool, len(entries))
	for _, e := range entries {
		k := userDay{e.UserID, e.WorkDate}
		if seen[k] {
			return timesheet.Conflictf("duplicate day %s in batch", e.WorkDate)
		}
		seen[k] = true
		if _, exists := r.byUserDay[k]; exists {
			return duplicateDayError(e.WorkDate)
		}
	}
	for _, e := range entries {
		if err := r.insertLocked(e); err != nil {
			return err
		}
	}
	return nil
}

func (r *entryRepo) insertLocked(e timesheet.Entry) error {
	k := userDay{e.UserID, e.WorkDate}
	if _, exists := r.byUserDay[k]; exists {
		return duplicateDayError(e.WorkDate)
	}
	r.entries[e.ID] = e
	r.byUserDay[k] = e.ID
	return nil
}

func (r *entryRepo) Update(_ context.Context, e timesheet.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.entries[e.ID]
	if !ok {
		return timesheet.NotFoundf("entry %q not found", e.ID)
	}
	// Moving the entry to a (user, day) slot held by another entry would
	// break the one-entry-per-day invariant the unique index guards.
	k := userDay{e.UserID, e.WorkDate}
	if holder, exists := r.byUserDay[k]; exists && holder != e.ID {
		return duplicateDayError(e.WorkDate)
	}
	delete(r.byUserDay, userDay{old.UserID, old.WorkDate})
	r.entries[e.ID] = e
	r.byUserDay[k] = e.ID
	return nil
}

func duplicateDayError(day calendar.Day) error {
	return &timesheet.Error{
		Kind:    timesheet.KindConflict,
		Message: fmt.Sprintf("entry for %s already exists", day),
		Err:     timesheet.ErrDuplicateDay,
	}
}

func (r *entryRepo) UpdateStatus(_ context.Context, id, statusCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return timesheet.NotFoundf("entry %q not found", id)
	}
	e.StatusCode = statusCode
	r.entries[id] = e
	return nil
}

func (r *entryRepo) UpdateStatusBatch(ctx context.Context, ids []string, statusCode string) error {
	for _, id := range ids {
		if err := r.UpdateStatus(ctx, id, statusCode); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// STATUS REPOSITORY
// =============================================================================

type statusRepo Store

func (r *statusRepo) FindByCode(_ context.Context, code string) (*timesheet.Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if st, ok := r.statuses[code]; ok {
		return &st, nil
	}
	return nil, nil
}

func (r *statusRepo) ByCodes(_ context.Context, codes []string) (map[string]timesheet.Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]timesheet.Status, len(codes))
	for _, c := range codes {
		if st, ok := r.statuses[c]; ok {
			out[c] = st
		}
	}
	return out, nil
}

func (r *statusRepo) FindAll(_ context.Context) ([]timesheet.Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]timesheet.Status, 0, len(r.statuses))
	for _, st := range r.statuses {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// =============================================================================
// USER / REFERENCE / CUSTOMIZING REPOSITORIES
// =============================================================================

type userRepo Store

func (r *userRepo) FindByID(_ context.Context, id string) (*timesheet.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

type refRepo Store

func (r *refRepo) ActiveProjectExists(_ context.Context, projectID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active, ok := r.projects[projectID]
	return ok && active, nil
}

func (r *refRepo) ActivityExists(_ context.Context, activityCode string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activity[activityCode], nil
}

type customizingRepo Store

func (r *customizingRepo) EntryDefaults(_ context.Context) (timesheet.EntryDefaults, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults, nil
}

func (r *customizingRepo) SickLeaveSettings(_ context.Context) (timesheet.SickLeaveSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sick, nil
}
