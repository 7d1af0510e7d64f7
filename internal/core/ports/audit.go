package ports

import (
	"context"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuditEvent) error
}

// AuditPublisher hands audit events off for asynchronous persistence.
// Publish must not block the caller.
type AuditPublisher interface {
	Publish(event domain.AuditEvent)
}
