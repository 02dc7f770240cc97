/*
status.go - Mark-Done and Release status transitions

PURPOSE:
  A small data-driven finite-state policy over an entry's status code.
  The states are whatever status rows are configured; only the two
  target codes (Done, Released) are well known, and those come from
  customizing, not from this file.

TRANSITION RULE:
  A transition is legal only if the current status row sets the
  capability flag for the requested action AND its ToCode is either
  empty or names the requested target.

IDEMPOTENCE:
  Both transitions are no-ops once the terminal state is reached:
  marking a Done entry done (or releasing a Released one) returns the
  entry unchanged without a second store write, so retries are safe.
*/
package timesheet

import "context"

// Transitioner applies the status transition policy.
type Transitioner struct {
	r Repos
}

func NewTransitioner(r Repos) *Transitioner { return &Transitioner{r: r} }

// statusAction distinguishes the two supported transitions.
type statusAction struct {
	name    string
	allowed func(Status) bool
	target  func(EntryDefaults) string
}

var (
	actionDone = statusAction{
		name:    "done",
		allowed: func(s Status) bool { return s.AllowDone },
		target:  func(d EntryDefaults) string { return d.DoneCode },
	}
	actionRelease = statusAction{
		name:    "release",
		allowed: func(s Status) bool { return s.AllowRelease },
		target:  func(d EntryDefaults) string { return d.ReleasedCode },
	}
)

// MarkDone transitions the entry to the Done status.
// Conflicts when the entry is Released, succeeds as a no-op when it is
// already Done.
func (t *Transitioner) MarkDone(ctx context.Context, entryID string) (*Entry, error) {
	return t.transition(ctx, entryID, actionDone)
}

// Release transitions the entry to the Released status.
// Succeeds as a no-op when the entry is already Released.
func (t *Transitioner) Release(ctx context.Context, entryID string) (*Entry, error) {
	return t.transition(ctx, entryID, actionRelease)
}

func (t *Transitioner) transition(ctx context.Context, entryID string, action statusAction) (*Entry, error) {
	if entryID == "" {
		return nil, Validationf("entry ID is required")
	}

	entry, err := t.r.Entries.FindByID(ctx, entryID)
	if err != nil {
		return nil, Unexpected("loading entry", err)
	}
	if entry == nil {
		return nil, NotFoundf("entry %q not found", entryID)
	}

	defaults, err := t.r.Customizing.EntryDefaults(ctx)
	if err != nil {
		return nil, Unexpected("loading entry defaults", err)
	}
	target := action.target(defaults)

	// Terminal no-op: retries are safe.
	if entry.StatusCode == target {
		return entry, nil
	}

	// Released entries are immutable to the done action.
	if action.name == "done" && entry.StatusCode == defaults.ReleasedCode {
		return nil, Conflictf("entry %q is released and cannot be marked done", entryID)
	}

	statuses, err := t.r.Statuses.ByCodes(ctx, []string{entry.StatusCode, target})
	if err != nil {
		return nil, Unexpected("loading status rows", err)
	}
	current, ok := statuses[entry.StatusCode]
	if !ok {
		return nil, Validationf("status %q of entry %q cannot be resolved", entry.StatusCode, entryID)
	}
	if _, ok := statuses[target]; !ok {
		return nil, Validationf("target status %q cannot be resolved", target)
	}

	if !action.allowed(current) {
		return nil, Conflictf("status %q does not permit the %s action", current.Code, action.name)
	}
	if current.ToCode != "" && current.ToCode != target {
		return nil, Conflictf("status %q only transitions to %q", current.Code, current.ToCode)
	}

	if err := t.r.Entries.UpdateStatus(ctx, entryID, target); err != nil {
		return nil, Unexpected("updating status", err)
	}

	// Re-read so the caller sees the fresh state.
	fresh, err := t.r.Entries.FindByID(ctx, entryID)
	if err != nil {
		return nil, Unexpected("reloading entry", err)
	}
	if fresh == nil {
		return nil, NotFoundf("entry %q not found after update", entryID)
	}
	return fresh, nil
}
