/*
errors.go - Closed error taxonomy for the timesheet core

PURPOSE:
  Every failure surfaced by commands belongs to exactly one kind:

    KindValidation  (400)  missing or malformed input, caller-fixable
    KindNotFound    (404)  referenced entity, user, or status missing
    KindConflict    (409)  business-rule violation: duplicate day entry,
                           illegal status transition, delete attempt
    KindUnexpected  (500)  underlying store failure

  The codes are status-like, not HTTP-specific; the transport layer maps
  them onto responses.

USAGE:
  Wrap and test with the standard errors package:

    if timesheet.IsConflict(err) { ... }
    var e *timesheet.Error
    errors.As(err, &e)

SEE ALSO:
  - commands.go: Attaches kinds at the use-case boundary
  - api/handlers.go: Maps kinds onto HTTP statuses
*/
package timesheet

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR KINDS
// =============================================================================

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindNotFound
	KindConflict
)

// Code returns the status-like code for a kind.
func (k Kind) Code() int {
	switch k {
	case KindValidation:
		return 400
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	default:
		return 500
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unexpected"
	}
}

// =============================================================================
// ERROR - Structured failure with a kind
// =============================================================================

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Constructors

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Unexpected wraps a store failure. Never retried, never swallowed.
func Unexpected(msg string, err error) *Error {
	return &Error{Kind: KindUnexpected, Message: msg, Err: err}
}

// =============================================================================
// SENTINEL ERRORS - Raised by stores, wrapped by commands
// =============================================================================

var (
	// ErrDuplicateDay is returned when an insert would create a second
	// entry for the same (user, date).
	ErrDuplicateDay = errors.New("entry already exists for this day")

	// ErrDeleteNotAllowed is returned for any delete attempt.
	// Time entries are never deleted.
	ErrDeleteNotAllowed = errors.New("time entries cannot be deleted")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

func isKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func IsValidation(err error) bool { return isKind(err, KindValidation) }
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }
func IsConflict(err error) bool { return isKind(err, KindConflict) }

// CodeOf returns the status-like code for any error; unknown errors
// count as unexpected.
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.Code()
	}
	return KindUnexpected.Code()
}
