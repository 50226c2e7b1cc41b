package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks access to a record owned by another examiner.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnprocessable marks business-rule violations (failed consistency
	// validation, bad status transitions) as opposed to malformed input.
	ErrUnprocessable = errors.New("unprocessable")
	// ErrConflict marks uniqueness violations (duplicate email, duplicate item).
	ErrConflict = errors.New("conflict")
)
