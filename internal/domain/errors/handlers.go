package errors

import (
	"net/http"
	"sort"
	"strings"
)

// FieldError describes one rejected input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a ValidationFailed carrying field-level detail
type ValidationError struct {
	fields []FieldError
}

// NewValidationError builds a ValidationFailed error from field -> message pairs.
func NewValidationError(fields map[string]string) *ValidationError {
	out := make([]FieldError, 0, len(fields))
	for field, msg := range fields {
		out = append(out, FieldError{Field: field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })

	return &ValidationError{fields: out}
}

// NewFieldError builds a ValidationFailed error for a single field.
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{fields: []FieldError{{Field: field, Message: message}}}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		parts = append(parts, f.Field+": "+f.Message)
	}

	return ErrValidationFailed.Message() + ": " + strings.Join(parts, "; ")
}

// Is reports ValidationError as a ValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// HTTPCode returns the HTTP status code
func (e *ValidationError) HTTPCode() int {
	return http.StatusBadRequest
}

// ErrorCode returns the business error code
func (e *ValidationError) ErrorCode() string {
	return ErrValidationFailed.ErrorCode()
}

// Message returns the user-friendly error message
func (e *ValidationError) Message() string {
	return ErrValidationFailed.Message()
}

// Details returns the joined field messages
func (e *ValidationError) Details() string {
	parts := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		parts = append(parts, f.Field+": "+f.Message)
	}

	return strings.Join(parts, "; ")
}

// Fields returns the rejected fields in field order.
func (e *ValidationError) Fields() []FieldError {
	return e.fields
}
