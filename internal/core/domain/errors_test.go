package domain

import (
	"fmt"
	"testing"
)

func TestConflictError_Message(t *testing.T) {
	err := &ConflictError{Entity: EntityUser, Field: "email"}
	if err.Error() != "email already exists" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestErrorClassification_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create user: %w", &ConflictError{Entity: EntityUser, Field: "username"})
	if ce, ok := IsConflict(wrapped); !ok || ce.Field != "username" {
		t.Errorf("IsConflict lost the field through wrapping: %v", wrapped)
	}

	if ve, ok := IsValidation(fmt.Errorf("validate: %w", ErrRoleReference)); !ok || ve.Message != "role not found" {
		t.Errorf("IsValidation failed: %+v", ve)
	}

	if !IsNotFound(fmt.Errorf("get role: %w", ErrRoleNotFound)) {
		t.Error("IsNotFound must see a wrapped ErrRoleNotFound")
	}
	if IsNotFound(ErrRoleReference) {
		t.Error("a dangling reference is a validation failure, not a not-found")
	}
}
