package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
	"github.com/99minutos/user-directory/internal/pkg/metrics"
)

// RoleService is the role registry. Name uniqueness among live roles is
// enforced by the repository, never by a read-then-write here.
type RoleService struct {
	repo   ports.RoleRepository
	audit  ports.AuditPublisher
	logger zerolog.Logger
}

func NewRoleService(repo ports.RoleRepository, audit ports.AuditPublisher, logger zerolog.Logger) *RoleService {
	return &RoleService{repo: repo, audit: publisherOrNoop(audit), logger: logger}
}

func (s *RoleService) CreateRole(ctx context.Context, input ports.CreateRoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	created, err := s.repo.Create(ctx, &domain.Role{
		Name:        name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, s.writeFailed(err, "create role")
	}

	metrics.RolesCreatedTotal.Inc()
	s.audit.Publish(auditEvent(domain.EntityRole, created.ID, domain.AuditCreated))
	s.logger.Info().Str("role_id", created.ID).Str("name", created.Name).Msg("role created")
	return created, nil
}

func (s *RoleService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	if roles == nil {
		roles = []*domain.Role{}
	}
	return roles, nil
}

func (s *RoleService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

func (s *RoleService) UpdateRole(ctx context.Context, id string, input ports.UpdateRoleInput) (*domain.Role, error) {
	name := input.Name
	if name.Set {
		trimmed := strings.TrimSpace(name.Value)
		if trimmed == "" {
			return nil, domain.NewValidationError("name", "name cannot be empty")
		}
		name = domain.Some(trimmed)
	}

	updated, err := s.repo.Update(ctx, id, name, input.Description.Value)
	if err != nil {
		return nil, s.writeFailed(err, "update role")
	}

	s.audit.Publish(auditEvent(domain.EntityRole, updated.ID, domain.AuditUpdated))
	s.logger.Info().Str("role_id", updated.ID).Msg("role updated")
	return updated, nil
}

// DeleteRole soft-deletes a live role. A second call on the same id fails
// with domain.ErrRoleNotFound.
func (s *RoleService) DeleteRole(ctx context.Context, id string) (*domain.Role, error) {
	deleted, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete role: %w", err)
	}

	metrics.SoftDeletesTotal.WithLabelValues(domain.EntityRole).Inc()
	s.audit.Publish(auditEvent(domain.EntityRole, deleted.ID, domain.AuditDeleted))
	s.logger.Info().Str("role_id", deleted.ID).Msg("role deleted")
	return deleted, nil
}

// RoleExists reports whether a live role with the given id exists.
func (s *RoleService) RoleExists(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, nil
	}
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check role: %w", err)
	}
	return ok, nil
}

func (s *RoleService) writeFailed(err error, op string) error {
	if ce, ok := domain.IsConflict(err); ok {
		metrics.ConflictsTotal.WithLabelValues(domain.EntityRole, ce.Field).Inc()
		s.logger.Warn().Str("field", ce.Field).Msg(op + ": uniqueness conflict")
	} else if !domain.IsNotFound(err) {
		s.logger.Error().Err(err).Msg(op + " failed")
	}
	return fmt.Errorf("%s: %w", op, err)
}
