/*
repo.go - Repository contracts and the transaction capability

PURPOSE:
  Defines the interfaces between the business core and the store. The
  core never sees a concrete database client: each command receives a
  Repos bundle scoped to one transaction, supplied by Store.WithTx.

TRANSACTION CONTRACT:
  All reads and writes within one command execution go through the same
  Repos value and therefore participate in the same transaction. The core
  issues no manual locking; cross-request safety (including the
  one-entry-per-day uniqueness) is the store's concurrency control.

CONVENTIONS:
  - Lookups return (nil, nil) when the row does not exist
  - Batch inserts are all-or-nothing within the transaction

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store
  - store/memory: in-memory store for tests and demos
*/
package timesheet

import (
	"context"

	"github.com/punchcard/worklog/calendar"
)

// =============================================================================
// TRANSACTION CAPABILITY
// =============================================================================

// Store hands out transaction-scoped repository bundles.
// If fn returns an error the transaction is rolled back.
type Store interface {
	WithTx(ctx context.Context, fn func(Repos) error) error
}

// Repos is the repository bundle for one transaction.
type Repos struct {
	Entries     EntryRepository
	Statuses    StatusRepository
	Users       UserRepository
	Refs        ReferenceRepository
	Customizing CustomizingRepository
}

// =============================================================================
// REPOSITORIES
// =============================================================================

type EntryRepository interface {
	FindByID(ctx context.Context, id string) (*Entry, error)
	FindByUserAndDate(ctx context.Context, userID string, date calendar.Day) (*Entry, error)

	// FindByUserAndDateRange returns entries ordered by work date.
	FindByUserAndDateRange(ctx context.Context, userID string, from, to calendar.Day) ([]Entry, error)
	FindByUserAndDateRangeAndType(ctx context.Context, userID string, from, to calendar.Day, typ EntryType) ([]Entry, error)

	Insert(ctx context.Context, e Entry) error

	// InsertBatch persists all entries or none. A duplicate
	// (user, date) anywhere in the batch fails the whole batch.
	InsertBatch(ctx context.Context, entries []Entry) error

	Update(ctx context.Context, e Entry) error
	UpdateStatus(ctx context.Context, id, statusCode string) error
	UpdateStatusBatch(ctx context.Context, ids []string, statusCode string) error
}

type StatusRepository interface {
	FindByCode(ctx context.Context, code string) (*Status, error)

	// ByCodes returns a code-to-status map for the requested codes.
	// Missing codes are absent from the map, not an error.
	ByCodes(ctx context.Context, codes []string) (map[string]Status, error)

	FindAll(ctx context.Context) ([]Status, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
}

// ReferenceRepository resolves project and activity references.
type ReferenceRepository interface {
	// ActiveProjectExists reports whether an active project with the
	// given ID exists.
	ActiveProjectExists(ctx context.Context, projectID string) (bool, error)

	ActivityExists(ctx context.Context, activityCode string) (bool, error)
}

// CustomizingRepository reads the singleton configuration record.
type CustomizingRepository interface {
	EntryDefaults(ctx context.Context) (EntryDefaults, error)
	SickLeaveSettings(ctx context.Context) (SickLeaveSettings, error)
}
