package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both absent and not publicly visible entities.
// Callers must not be able to tell the two apart.
var ErrNotFound = errors.New("not found")

// ValidationError rejects malformed input before any store call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ResolutionError is a transient dependency failure. It is retryable and
// must never be reported as ErrNotFound.
type ResolutionError struct {
	Op  string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsResolution(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}
