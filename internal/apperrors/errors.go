// Package apperrors defines the error taxonomy shared by the repositories,
// services and HTTP handlers.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a product id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for malformed identifiers.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthorized is returned for missing, malformed, expired or badly signed tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned when the admin id or password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrStore wraps database connectivity and query failures.
	ErrStore = errors.New("store error")
)

// FieldError describes a single failing input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed validation, not just the first.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError from the given field errors.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Add appends a failing field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Store wraps a driver error so that it matches ErrStore while keeping the cause.
func Store(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
