package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a request fails validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when the requested entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller does not own the entity
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized is returned for missing or bad credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict is returned when the request clashes with current state
	ErrConflict = errors.New("conflict")
)

// InvalidInputError describes which field was rejected and why.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInvalidInput builds an InvalidInputError.
func NewInvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}
