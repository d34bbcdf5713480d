// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated indicates the request carries no valid principal.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates the authenticated principal doesn't have permission.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates the backing store cannot be reached.
	ErrUnavailable = errors.New("unavailable")
)

// Token-layer errors. These all unwrap to ErrUnauthenticated so the HTTP
// layer rejects them uniformly while callers can still distinguish the
// specific fault.
var (
	// ErrInvalidCredential indicates a credential that matches no stored record.
	ErrInvalidCredential = Wrap(ErrUnauthenticated, "invalid credential")

	// ErrExpired indicates a credential past its expiry time.
	ErrExpired = Wrap(ErrUnauthenticated, "credential expired")

	// ErrRevoked indicates an explicitly revoked credential.
	ErrRevoked = Wrap(ErrUnauthenticated, "credential revoked")

	// ErrInvalidSignature indicates a token whose signature does not verify.
	ErrInvalidSignature = Wrap(ErrUnauthenticated, "invalid signature")

	// ErrMalformed indicates a token that cannot be parsed at all.
	ErrMalformed = Wrap(ErrUnauthenticated, "malformed token")
)

// Capability-layer errors.
var (
	// ErrInsufficientPrivilege indicates the principal's actual privilege is
	// lower than the requested capability level. Unwraps to ErrForbidden.
	ErrInsufficientPrivilege = Wrap(ErrForbidden, "insufficient privilege")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
