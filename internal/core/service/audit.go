package service

import (
	"time"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

type noopPublisher struct{}

func (noopPublisher) Publish(domain.AuditEvent) {}

func publisherOrNoop(p ports.AuditPublisher) ports.AuditPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

func auditEvent(entity, id string, action domain.AuditAction) domain.AuditEvent {
	return domain.AuditEvent{
		Entity:   entity,
		EntityID: id,
		Action:   action,
		At:       time.Now().UTC(),
	}
}
