// Package apperror defines the error taxonomy shared across layers.
// Callers classify failures with errors.Is; the HTTP layer maps each
// sentinel to a status code.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned for malformed or missing input
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned for business-rule conflicts: duplicate sku,
	// or a decision attempted on a record that is no longer pending
	ErrConflict = errors.New("conflict")

	// ErrNotFound is returned when no record exists for the given id
	ErrNotFound = errors.New("not found")

	// ErrConcurrentModification is returned when a revision-checked write
	// loses the optimistic-lock race; the whole operation may be retried
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrUnauthorized is returned when a token is missing, unknown or expired
	ErrUnauthorized = errors.New("unauthorized")
)

// Validation wraps ErrValidation with a human-readable reason
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Conflict wraps ErrConflict with a human-readable reason
func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// NotFound wraps ErrNotFound with a human-readable reason
func NotFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}
