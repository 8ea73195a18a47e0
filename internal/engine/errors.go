// Package engine contains the two core subsystems of the platform: the
// allocation engine (distributing ordered quantities across locations) and
// the transfer state machine. Both are stateless; the only I/O happens
// through the narrow RepositoryPort. Handlers map the error types below to
// HTTP statuses, so the core never needs to know about the wire.
package engine

import (
	"errors"
	"fmt"
)

// ValidationError is a violated business rule: percentages over 100%,
// non-positive quantities, illegal state transitions. Never auto-corrected.
type ValidationError struct {
	msg string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.msg }

// NotFoundError is a missing entity for the given tenant — distinct from
// validation so callers can choose a 404-style response.
type NotFoundError struct {
	msg string
}

func NewNotFoundError(format string, args ...any) *NotFoundError {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string { return e.msg }

// AuthorizationError is a tenant mismatch between the supplied context and
// the loaded entity.
type AuthorizationError struct {
	msg string
}

func NewAuthorizationError(format string, args ...any) *AuthorizationError {
	return &AuthorizationError{msg: fmt.Sprintf(format, args...)}
}

func (e *AuthorizationError) Error() string { return e.msg }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAuthorization reports whether err is (or wraps) an AuthorizationError.
func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}
