/*
Package sqlite provides the SQLite-backed implementation of the
repository contracts.

PURPOSE:
  Implements timesheet.Store and every repository interface on SQLite.
  In production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  time_entries: One row per user per calendar day
  statuses:     Lifecycle states with capability flags
  users:        Employee records
  projects:     Referenced projects (active flag)
  activities:   Referenced activity codes
  customizing:  Singleton configuration row

DAY UNIQUENESS:
  The one-entry-per-(user, date) invariant is enforced twice: the
  command layer runs a read-then-check, and idx_unique_user_day rejects
  the race that check cannot see. Constraint violations surface as the
  Conflict error kind.

TRANSACTIONS:
  WithTx opens one database transaction and hands out a repository
  bundle bound to it. All reads and writes of one command execution go
  through that bundle; fn returning an error rolls everything back.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/worklog.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - timesheet/repo.go: Interface definitions
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/punchcard/worklog/calendar"
	"github.com/punchcard/worklog/timesheet"
)

// Store implements timesheet.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		work_date TEXT NOT NULL,
		entry_type TEXT NOT NULL,
		start_time TEXT,
		end_time TEXT,
		break_min INTEGER NOT NULL DEFAULT 0,
		duration_hours TEXT NOT NULL DEFAULT '0',
		overtime_hours TEXT NOT NULL DEFAULT '0',
		status_code TEXT NOT NULL,
		project_id TEXT,
		activity_code TEXT,
		travel_type TEXT,
		work_location TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- CRITICAL: at most one entry per user per calendar day. The
	-- command-layer check alone leaves a race window; this closes it.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_user_day
		ON time_entries(user_id, work_date);

	-- Range queries (generation prefetch, balances) are the hot path.
	CREATE INDEX IF NOT EXISTS idx_entries_user_date_type
		ON time_entries(user_id, work_date, entry_type);
	CREATE INDEX IF NOT EXISTS idx_entries_status
		ON time_entries(status_code);

	CREATE TABLE IF NOT EXISTS statuses (
		code TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		allow_done BOOLEAN NOT NULL DEFAULT FALSE,
		allow_release BOOLEAN NOT NULL DEFAULT FALSE,
		to_code TEXT
	);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		annual_vacation_days TEXT
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE TABLE IF NOT EXISTS activities (
		code TEXT PRIMARY KEY,
		label TEXT NOT NULL DEFAULT ''
	);

	-- Singleton configuration row
	CREATE TABLE IF NOT EXISTS customizing (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		status_open_code TEXT NOT NULL,
		status_done_code TEXT NOT NULL,
		status_released_code TEXT NOT NULL,
		sick_warning_days INTEGER NOT NULL,
		sick_critical_days INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTION CAPABILITY (timesheet.Store interface)
// =============================================================================

// WithTx executes fn with a repository bundle bound to one database
// transaction. fn returning an error rolls the transaction back.
func (s *Store) WithTx(ctx context.Context, fn func(timesheet.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(newRepos(sqlTx)); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// Repos returns a repository bundle running outside any transaction,
// each statement auto-committed. Handy for seeding and tests.
func (s *Store) Repos() timesheet.Repos {
	return newRepos(s.db)
}

// runner is satisfied by both *sql.DB and *sql.Tx.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func newRepos(db runner) timesheet.Repos {
	return timesheet.Repos{
		Entries:     &entryRepo{db},
		Statuses:    &statusRepo{db},
		Users:       &userRepo{db},
		Refs:        &refRepo{db},
		Customizing: &customizingRepo{db},
	}
}

// =============================================================================
// ENTRY REPOSITORY
// =============================================================================

type entryRepo struct{ db runner }

const entryColumns = `id, user_id, work_date, entry_type, start_time, end_time,
	break_min, duration_hours, overtime_hours, status_code,
	project_id, activity_code, travel_type, work_location, created_at, updated_at`

func (r *entryRepo) FindByID(ctx context.Context, id string) (*timesheet.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries WHERE id = ?`, id)
	return scanEntryRow(row)
}

func (r *entryRepo) FindByUserAndDate(ctx context.Context, userID string, date calendar.Day) (*timesheet.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries WHERE user_id = ? AND work_date = ?`,
		userID, date.String())
	return scanEntryRow(row)
}

func (r *entryRepo) FindByUserAndDateRange(ctx context.Context, userID string, from, to calendar.Day) ([]timesheet.Entry, error) {
	return r.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM time_entries
		 WHERE user_id = ? AND work_date >= ? AND work_date <= ?
		 ORDER BY work_date ASC`,
		userID, from.String(), to.String())
}

func (r *entryRepo) FindByUserAndDateRangeAndType(ctx context.Context, userID string, from, to calendar.Day, typ timesheet.EntryType) ([]timesheet.Entry, error) {
	return r.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM time_entries
		 WHERE user_id = ? AND work_date >= ? AND work_date <= ? AND entry_type = ?
		 ORDER BY work_date ASC`,
		userID, from.String(), to.String(), string(typ))
}

func (r *entryRepo) Insert(ctx context.Context, e timesheet.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO time_entries
		(id, user_id, work_date, entry_type, start_time, end_time, break_min,
		 duration_hours, overtime_hours, status_code, project_id, activity_code,
		 travel_type, work_location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.WorkDate.String(), string(e.Type),
		nullString(e.StartTime), nullString(e.EndTime), e.BreakMin,
		e.DurationHours.String(), e.OvertimeHours.String(), e.StatusCode,
		nullString(e.ProjectID), nullString(e.ActivityCode),
		nullString(e.TravelType), nullString(e.WorkLocation),
		e.CreatedAt.UTC().Format(time.RFC3339), e.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return &timesheet.Error{
				Kind:    timesheet.KindConflict,
				Message: fmt.Sprintf("entry for %s already exists", e.WorkDate),
				Err:     timesheet.ErrDuplicateDay,
			}
		}
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// InsertBatch inserts all entries through the surrounding transaction.
// When called inside WithTx a failed insert rolls back the whole run.
func (r *entryRepo) InsertBatch(ctx context.Context, entries []timesheet.Entry) error {
	for _, e := range entries {
		if err := r.Insert(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *entryRepo) Update(ctx context.Context, e timesheet.Entry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE time_entries SET
			user_id = ?, work_date = ?, entry_type = ?, start_time = ?,
			end_time = ?, break_min = ?, duration_hours = ?, overtime_hours = ?,
			status_code = ?, project_id = ?, activity_code = ?, travel_type = ?,
			work_location = ?, updated_at = ?
		WHERE id = ?`,
		e.UserID, e.WorkDate.String(), string(e.Type),
		nullString(e.StartTime), nullString(e.EndTime), e.BreakMin,
		e.DurationHours.String(), e.OvertimeHours.String(), e.StatusCode,
		nullString(e.ProjectID), nullString(e.ActivityCode),
		nullString(e.TravelType), nullString(e.WorkLocation),
		e.UpdatedAt.UTC().Format(time.RFC3339), e.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return &timesheet.Error{
				Kind:    timesheet.KindConflict,
				Message: fmt.Sprintf("entry for %s already exists", e.WorkDate),
				Err:     timesheet.ErrDuplicateDay,
			}
		}
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return timesheet.NotFoundf("entry %q not found", e.ID)
	}
	return nil
}

func (r *entryRepo) UpdateStatus(ctx context.Context, id, statusCode string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE time_entries SET status_code = ?, updated_at = ? WHERE id = ?`,
		statusCode, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return timesheet.NotFoundf("entry %q not found", id)
	}
	return nil
}

func (r *entryRepo) UpdateStatusBatch(ctx context.Context, ids []string, statusCode string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+2)
	args = append(args, statusCode, time.Now().UTC().Format(time.RFC3339))
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE time_entries SET status_code = ?, updated_at = ? WHERE id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return fmt.Errorf("failed to update status batch: %w", err)
	}
	return nil
}

func (r *entryRepo) queryEntries(ctx context.Context, query string, args ...any) ([]timesheet.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (timesheet.Entry, error) {
	var (
		e                    timesheet.Entry
		workDate             string
		entryType            string
		startTime, endTime   sql.NullString
		duration, overtime   string
		project, activity    sql.NullString
		travel, location     sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&e.ID, &e.UserID, &workDate, &entryType, &startTime, &endTime,
		&e.BreakMin, &duration, &overtime, &e.StatusCode,
		&project, &activity, &travel, &location, &createdAt, &updatedAt,
	)
	if err != nil {
		return e, err
	}

	e.WorkDate, err = calendar.ParseDay(workDate)
	if err != nil {
		return e, fmt.Errorf("failed to scan entry date: %w", err)
	}
	e.Type = timesheet.EntryType(entryType)
	e.StartTime = startTime.String
	e.EndTime = endTime.String
	e.DurationHours = mustDecimal(duration)
	e.OvertimeHours = mustDecimal(overtime)
	e.ProjectID = project.String
	e.ActivityCode = activity.String
	e.TravelType = travel.String
	e.WorkLocation = location.String
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return e, nil
}

func scanEntryRow(row *sql.Row) (*timesheet.Entry, error) {
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}
	return &e, nil
}

// =============================================================================
// STATUS REPOSITORY
// =============================================================================

type statusRepo struct{ db runner }

func (r *statusRepo) FindByCode(ctx context.Context, code string) (*timesheet.Status, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT code, label, allow_done, allow_release, to_code FROM statuses WHERE code = ?`, code)
	st, err := scanStatus(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *statusRepo) ByCodes(ctx context.Context, codes []string) (map[string]timesheet.Status, error) {
	out := make(map[string]timesheet.Status, len(codes))
	for _, code := range codes {
		if _, seen := out[code]; seen {
			continue
		}
		st, err := r.FindByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if st != nil {
			out[code] = *st
		}
	}
	return out, nil
}

func (r *statusRepo) FindAll(ctx context.Context) ([]timesheet.Status, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT code, label, allow_done, allow_release, to_code FROM statuses ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []timesheet.Status
	for rows.Next() {
		st, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func scanStatus(row rowScanner) (timesheet.Status, error) {
	var st timesheet.Status
	var toCode sql.NullString
	err := row.Scan(&st.Code, &st.Label, &st.AllowDone, &st.AllowRelease, &toCode)
	st.ToCode = toCode.String
	return st, err
}

// =============================================================================
// USER REPOSITORY
// =============================================================================

type userRepo struct{ db runner }

func (r *userRepo) FindByID(ctx context.Context, id string) (*timesheet.User, error) {
	var u timesheet.User
	var vacation sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, display_name, annual_vacation_days FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.DisplayName, &vacation)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if vacation.Valid {
		u.AnnualVacationDays = mustDecimal(vacation.String)
	}
	return &u, nil
}

// =============================================================================
// REFERENCE REPOSITORY
// =============================================================================

type refRepo struct{ db runner }

func (r *refRepo) ActiveProjectExists(ctx context.Context, projectID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE id = ? AND active`, projectID).Scan(&count)
	return count > 0, err
}

func (r *refRepo) ActivityExists(ctx context.Context, activityCode string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM activities WHERE code = ?`, activityCode).Scan(&count)
	return count > 0, err
}

// =============================================================================
// CUSTOMIZING REPOSITORY
// =============================================================================

type customizingRepo struct{ db runner }

func (r *customizingRepo) EntryDefaults(ctx context.Context) (timesheet.EntryDefaults, error) {
	var d timesheet.EntryDefaults
	err := r.db.QueryRowContext(ctx,
		`SELECT status_open_code, status_done_code, status_released_code
		 FROM customizing WHERE id = 1`).
		Scan(&d.OpenCode, &d.DoneCode, &d.ReleasedCode)
	if err == sql.ErrNoRows {
		return timesheet.EntryDefaults{}, fmt.Errorf("customizing row missing")
	}
	return d, err
}

func (r *customizingRepo) SickLeaveSettings(ctx context.Context) (timesheet.SickLeaveSettings, error) {
	var c timesheet.SickLeaveSettings
	err := r.db.QueryRowContext(ctx,
		`SELECT sick_warning_days, sick_critical_days FROM customizing WHERE id = 1`).
		Scan(&c.WarningDays, &c.CriticalDays)
	if err == sql.ErrNoRows {
		return timesheet.SickLeaveSettings{}, fmt.Errorf("customizing row missing")
	}
	return c, err
}

// =============================================================================
// SEEDING / ADMIN
// =============================================================================

// SaveStatus upserts a status row.
func (s *Store) SaveStatus(ctx context.Context, st timesheet.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO statuses (code, label, allow_done, allow_release, to_code)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			label = excluded.label,
			allow_done = excluded.allow_done,
			allow_release = excluded.allow_release,
			to_code = excluded.to_code`,
		st.Code, st.Label, st.AllowDone, st.AllowRelease, nullString(st.ToCode))
	return err
}

// SaveUser upserts a user row.
func (s *Store) SaveUser(ctx context.Context, u timesheet.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var vacation sql.NullString
	if !u.AnnualVacationDays.IsZero() {
		vacation = sql.NullString{String: u.AnnualVacationDays.String(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, annual_vacation_days)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			annual_vacation_days = excluded.annual_vacation_days`,
		u.ID, u.DisplayName, vacation)
	return err
}

// SaveProject upserts a project row.
func (s *Store) SaveProject(ctx context.Context, id, name string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, active) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, active = excluded.active`,
		id, name, active)
	return err
}

// SaveActivity upserts an activity row.
func (s *Store) SaveActivity(ctx context.Context, code, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (code, label) VALUES (?, ?)
		ON CONFLICT(code) DO UPDATE SET label = excluded.label`,
		code, label)
	return err
}

// SaveCustomizing upserts the singleton configuration row.
func (s *Store) SaveCustomizing(ctx context.Context, d timesheet.EntryDefaults, c timesheet.SickLeaveSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customizing
		(id, status_open_code, status_done_code, status_released_code,
		 sick_warning_days, sick_critical_days)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status_open_code = excluded.status_open_code,
			status_done_code = excluded.status_done_code,
			status_released_code = excluded.status_released_code,
			sick_warning_days = excluded.sick_warning_days,
			sick_critical_days = excluded.sick_critical_days`,
		d.OpenCode, d.DoneCode, d.ReleasedCode, c.WarningDays, c.CriticalDays)
	return err
}

// SeedDefaults installs the standard status set and customizing row:
// O (open) -> D (done) -> R (released).
func (s *Store) SeedDefaults(ctx context.Context) error {
	statuses := []timesheet.Status{
		{Code: "O", Label: "Open", AllowDone: true},
		{Code: "D", Label: "Done", AllowRelease: true, ToCode: "R"},
		{Code: "R", Label: "Released"},
	}
	for _, st := range statuses {
		if err := s.SaveStatus(ctx, st); err != nil {
			return err
		}
	}
	return s.SaveCustomizing(ctx,
		timesheet.EntryDefaults{OpenCode: "O", DoneCode: "D", ReleasedCode: "R"},
		timesheet.SickLeaveSettings{WarningDays: 10, CriticalDays: 20},
	)
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
