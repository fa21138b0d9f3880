// Package errors defines the domain error vocabulary shared by all modules.
// Use cases return these sentinels (possibly wrapped with context) and the
// HTTP layer maps them to status codes; infrastructure failures that carry no
// domain meaning are wrapped and surface as internal errors.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across domain modules.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation on persist (e.g. duplicate email).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input failed validation before reaching a use case.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or invalid authentication credentials.
	// Bad passwords, unknown emails and spent refresh tokens all map here; the
	// wrapped reason string is the only distinction surfaced to callers.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates an authenticated principal lacks a required permission.
	ErrForbidden = errors.New("forbidden")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap adds context to an error while preserving the chain for errors.Is checks.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Unauthorizedf builds an ErrUnauthorized with a human-readable reason.
// The reason is informational only; callers must branch on the sentinel.
func Unauthorizedf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrUnauthorized)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
