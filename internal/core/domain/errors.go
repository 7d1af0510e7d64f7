package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRoleNotFound = errors.New("role not found")
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError reports malformed or missing input, including a role
// reference that does not resolve to a live role.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ErrRoleReference is returned when a user write names a role that is absent
// or soft-deleted.
var ErrRoleReference = &ValidationError{Field: "role", Message: "role not found"}

// ConflictError reports a uniqueness violation on Field among live records
// of Entity.
type ConflictError struct {
	Entity string
	Field  string
}

func (e *ConflictError) Error() string {
	return e.Field + " already exists"
}

// IsConflict reports whether err is a ConflictError and returns it.
func IsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsNotFound reports whether err means the target does not resolve to a
// live entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoleNotFound) || errors.Is(err, ErrUserNotFound)
}
