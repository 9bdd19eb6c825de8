package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict (duplicate email).
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidID indicates a syntactically malformed identifier.
	ErrInvalidID = errors.New("invalid id")
)

// ValidationError carries a caller-facing message about malformed input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Invalid builds a ValidationError.
func Invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
