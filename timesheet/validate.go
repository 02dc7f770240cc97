/*
validate.go - Input validation for create and update

PURPOSE:
  Fail-fast checks run by the commands before anything touches the
  store: required fields, temporal consistency for work entries, and
  referential validity of project/activity references. Each check
  raises the first violation it finds; there is no error aggregation.
*/
package timesheet

import "context"

// ValidateRequiredFieldsForCreate checks the create payload and returns
// the resolved entry type (defaulted to WORK when absent). Work entries
// must carry both start and end time.
func ValidateRequiredFieldsForCreate(in CreateEntryInput) (EntryType, error) {
	if in.UserID == "" {
		return "", Validationf("user reference is required")
	}
	if in.WorkDate.IsZero() {
		return "", Validationf("work date is required")
	}

	typ := in.Type
	if typ == "" {
		typ = TypeWork
	}
	if !typ.IsValid() {
		return "", Validationf("unknown entry type %q", string(in.Type))
	}

	if typ.RequiresTimes() {
		if in.StartTime == "" {
			return "", Validationf("start time is required for work entries")
		}
		if in.EndTime == "" {
			return "", Validationf("end time is required for work entries")
		}
	}
	return typ, nil
}

// ValidateFieldsForUpdate checks the update payload against the existing
// entry, using incoming values where present and falling back to the
// stored ones. Raises on violation only.
func ValidateFieldsForUpdate(in UpdateEntryInput, existing *Entry) error {
	typ := existing.Type
	if in.Type != nil {
		typ = *in.Type
		if !typ.IsValid() {
			return Validationf("unknown entry type %q", string(typ))
		}
	}
	if !typ.RequiresTimes() {
		return nil
	}

	start := existing.StartTime
	if in.StartTime != nil {
		start = *in.StartTime
	}
	end := existing.EndTime
	if in.EndTime != nil {
		end = *in.EndTime
	}
	if start == "" {
		return Validationf("start time is required for work entries")
	}
	if end == "" {
		return Validationf("end time is required for work entries")
	}
	return nil
}

// ValidateReferences checks that a referenced project exists and is
// active, and that a referenced activity code exists. Empty references
// are allowed.
func ValidateReferences(ctx context.Context, refs ReferenceRepository, projectID, activityCode string) error {
	if projectID != "" {
		ok, err := refs.ActiveProjectExists(ctx, projectID)
		if err != nil {
			return Unexpected("resolving project", err)
		}
		if !ok {
			return NotFoundf("no active project %q", projectID)
		}
	}
	if activityCode != "" {
		ok, err := refs.ActivityExists(ctx, activityCode)
		if err != nil {
			return Unexpected("resolving activity", err)
		}
		if !ok {
			return NotFoundf("no activity %q", activityCode)
		}
	}
	return nil
}

// RequiresTimeRecalculation reports whether the update touches any field
// the time calculation depends on.
func (in UpdateEntryInput) RequiresTimeRecalculation() bool {
	return in.StartTime != nil || in.EndTime != nil || in.BreakMin != nil ||
		in.UserID != nil || in.Type != nil
}
