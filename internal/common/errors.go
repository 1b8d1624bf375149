// Package common defines sentinel errors shared by the repository, service
// and transport layers. Callers should use errors.Is / errors.As to match them.
package common

import (
	"errors"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorValidation = errors.New("validation error")
	ErrorInternal   = errors.New("internal error")

	// ErrorInvalidCode is returned when a confirmation code does not match
	// the user it was presented for, or has expired.
	ErrorInvalidCode = errors.New("invalid confirmation code")

	// Access errors. ErrorUnauthorized means no (valid) credential was
	// presented, ErrorForbidden means the credential is valid but the policy
	// denies the action.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError carries per-field messages for malformed or forbidden input.
// It matches ErrorValidation via errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrorValidation
}
