package domain

import (
	"errors"
	"fmt"
)

// Common domain errors that can occur during submission and ranking
// operations.
var (
	// ErrDuplicateSubmission indicates that the submitter already has a
	// review on record for the resolved instructor. This is a normal
	// rejection path, not a system fault: retrying never creates a
	// second record.
	ErrDuplicateSubmission = errors.New("duplicate submission")

	// ErrUnknownProfile indicates that a ranking request named a
	// profile that is not in the catalog. The engine fails explicitly
	// rather than defaulting.
	ErrUnknownProfile = errors.New("unknown scoring profile")

	// ErrInvalidConfiguration indicates that configuration is invalid
	// or incomplete. It is fatal to the current request only and never
	// corrupts stored data.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEmptyName indicates that an instructor name was empty after
	// normalization.
	ErrEmptyName = errors.New("empty instructor name")

	// ErrInvalidIdentifier indicates that a submitter token failed the
	// active identity strategy's format check.
	ErrInvalidIdentifier = errors.New("invalid submitter identifier")
)

// ValidationError represents a submission that failed validation.
// It can carry multiple field-level failures; the submission is
// discarded as a whole with no partial write.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// Addf adds a formatted error message to the validation error.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
