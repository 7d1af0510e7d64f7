package domain

import "time"

// AuditAction names a lifecycle change recorded in the audit trail.
type AuditAction string

const (
	AuditCreated   AuditAction = "created"
	AuditUpdated   AuditAction = "updated"
	AuditDeleted   AuditAction = "deleted"
	AuditActivated AuditAction = "activated"
)

const (
	EntityRole = "role"
	EntityUser = "user"
)

// AuditEvent records a single successful mutation of a Role or User.
type AuditEvent struct {
	Entity   string
	EntityID string
	Action   AuditAction
	At       time.Time
}
