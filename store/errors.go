package store

import (
	"errors"
	"fmt"
)

// Business outcome errors. Every failure returned by an engine operation matches exactly one of these via errors.Is.
var (
	// ErrNotFound is returned when the requested id does not exist for the entity kind queried.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned for uniqueness violations, deletions blocked by active loans,
	// and duplicate active loans for the same (member, book) pair.
	ErrConflict = errors.New("conflict")

	// ErrInvalidReference is returned when a supplied foreign key does not reference an existing row.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrUnavailable is returned when a checkout is attempted with zero copies available.
	ErrUnavailable = errors.New("unavailable")

	// ErrInvalidState is returned when a loan transition is not allowed, e.g. returning a returned loan.
	ErrInvalidState = errors.New("invalid state")

	// ErrTransient is returned for concurrency-control aborts (lock contention, serialization failures,
	// busy database, exhausted deadlines). It is the only error kind that is safe to retry.
	ErrTransient = errors.New("transient failure")

	// ErrInvalidInput is returned when a payload violates a field constraint (empty name, negative copies, ...).
	ErrInvalidInput = errors.New("invalid input")
)

// Infrastructure errors, combined with the underlying cause via errors.Join.
var (
	ErrNilDatabaseConnection     = errors.New("database connection must not be nil")
	ErrBuildingQueryFailed       = errors.New("building query failed")
	ErrQueryingFailed            = errors.New("querying failed")
	ErrScanningDBRowFailed       = errors.New("scanning db row failed")
	ErrExecutingStatementFailed  = errors.New("executing statement failed")
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
	ErrBeginningTxFailed         = errors.New("beginning transaction failed")
	ErrCommittingTxFailed        = errors.New("committing transaction failed")
	ErrUnknownKind               = errors.New("unknown entity kind")
	ErrNilClock                  = errors.New("clock must not be nil")
)

// Violation builds an error that matches the given outcome sentinel and carries a human-readable reason.
func Violation(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// ErrorKind returns a stable label for the outcome sentinel matched by err.
// It is used for metric labels, log attributes and transport status mapping.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrTransient):
		return "transient"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "other"
	}
}
