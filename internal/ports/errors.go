package ports

import (
	"errors"
	"fmt"
)

// Common infrastructure errors that can occur during store interactions.
var (
	// ErrConflict indicates that the store's uniqueness constraint on
	// (submitter token, instructor) was violated. The application maps
	// this to domain.ErrDuplicateSubmission.
	ErrConflict = errors.New("uniqueness conflict")

	// ErrIO indicates a persistence failure unrelated to constraints.
	ErrIO = errors.New("store I/O failure")
)

// StoreError represents an error from a ReviewStore operation.
// It includes the backend name and operation that failed.
type StoreError struct {
	// Backend names the store implementation ("memory", "sqlite", ...).
	Backend string

	// Operation is the name of the store operation that failed.
	Operation string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: backend=%s, operation=%s, err=%v",
		e.Backend, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error { return e.Err }

// IsConflict reports whether the error is a uniqueness violation.
func (e *StoreError) IsConflict() bool { return errors.Is(e.Err, ErrConflict) }

// NewStoreError creates a new StoreError with the given details.
func NewStoreError(backend, operation string, err error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Err:       err,
	}
}
