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

// RoleChecker abstracts the role registry lookup used to validate references.
type RoleChecker interface {
	RoleExists(ctx context.Context, id string) (bool, error)
}

// UserService is the user directory.
//
// The role check in CreateUser and UpdateUser is a read followed by a separate
// write; a role soft-deleted in between is not detected. Username and email
// uniqueness are enforced atomically by the repository.
type UserService struct {
	repo   ports.UserRepository
	roles  RoleChecker
	audit  ports.AuditPublisher
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, roles RoleChecker, audit ports.AuditPublisher, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, roles: roles, audit: publisherOrNoop(audit), logger: logger}
}

// CreateUser validates the role reference and persists a new inactive user.
// The returned user is populated with its role.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	for _, f := range []struct{ name, value string }{
		{"username", input.Username},
		{"password", input.Password},
		{"email", input.Email},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, domain.NewValidationError(f.name, "%s is required", f.name)
		}
	}

	if err := s.checkRole(ctx, input.Role); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	created, err := s.repo.Create(ctx, &domain.User{
		Username:  input.Username,
		Password:  input.Password,
		Email:     input.Email,
		FullName:  input.FullName,
		AvatarURL: input.AvatarURL,
		RoleID:    input.Role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, s.writeFailed(err, "create user")
	}

	metrics.UsersCreatedTotal.Inc()
	s.audit.Publish(auditEvent(domain.EntityUser, created.ID, domain.AuditCreated))
	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user created")
	return created, nil
}

// ListUsers returns a page of live users plus pagination metadata.
func (s *UserService) ListUsers(ctx context.Context, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	if input.Page < 1 {
		return nil, domain.NewValidationError("page", "page must be at least 1")
	}
	if input.Limit < 1 || input.Limit > ports.MaxLimit {
		return nil, domain.NewValidationError("limit", "limit must be between 1 and %d", ports.MaxLimit)
	}

	filter := ports.ListUsersFilter{Page: input.Page, Limit: input.Limit}
	if search := strings.TrimSpace(input.Search); search != "" {
		filter.Search = search
	} else {
		filter.Username = strings.TrimSpace(input.Username)
		filter.FullName = strings.TrimSpace(input.FullName)
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}

	return &ports.ListUsersResult{
		Users:      users,
		Pagination: domain.NewPagination(input.Page, input.Limit, total),
	}, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, fmt.Errorf("get user by username: %w", domain.ErrUserNotFound)
	}
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

// UpdateUser applies only the fields set in patch. A supplied role is
// re-validated before anything is written. An empty patch writes nothing and
// returns the user as stored.
func (s *UserService) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	if patch.IsEmpty() {
		user, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		return user, nil
	}

	for _, f := range []struct {
		name string
		opt  domain.Optional[string]
	}{
		{"username", patch.Username},
		{"password", patch.Password},
		{"email", patch.Email},
	} {
		if f.opt.Set && strings.TrimSpace(f.opt.Value) == "" {
			return nil, domain.NewValidationError(f.name, "%s cannot be empty", f.name)
		}
	}
	if patch.LoginCount.Set && patch.LoginCount.Value < 0 {
		return nil, domain.NewValidationError("loginCount", "loginCount cannot be negative")
	}

	if patch.Role.Set {
		if err := s.checkRole(ctx, patch.Role.Value); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.writeFailed(err, "update user")
	}

	s.audit.Publish(auditEvent(domain.EntityUser, updated.ID, domain.AuditUpdated))
	s.logger.Info().Str("user_id", updated.ID).Msg("user updated")
	return updated, nil
}

// DeleteUser soft-deletes a live user. A second call on the same id fails
// with domain.ErrUserNotFound.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	deleted, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}

	metrics.SoftDeletesTotal.WithLabelValues(domain.EntityUser).Inc()
	s.audit.Publish(auditEvent(domain.EntityUser, deleted.ID, domain.AuditDeleted))
	s.logger.Info().Str("user_id", deleted.ID).Msg("user deleted")
	return deleted, nil
}

// ActivateUser flips status to true on the live user identified jointly by
// email and username. There is no transition back to inactive.
func (s *UserService) ActivateUser(ctx context.Context, email, username string) (*domain.User, error) {
	if email == "" || username == "" {
		return nil, domain.NewValidationError("email", "email and username are required")
	}

	user, err := s.repo.Activate(ctx, email, username)
	if err != nil {
		if domain.IsNotFound(err) {
			s.logger.Debug().Str("username", username).Msg("activation target not found")
		}
		return nil, fmt.Errorf("activate user: %w", err)
	}

	metrics.UsersActivatedTotal.Inc()
	s.audit.Publish(auditEvent(domain.EntityUser, user.ID, domain.AuditActivated))
	s.logger.Info().Str("user_id", user.ID).Msg("user activated")
	return user, nil
}

func (s *UserService) checkRole(ctx context.Context, roleID string) error {
	ok, err := s.roles.RoleExists(ctx, roleID)
	if err != nil {
		return fmt.Errorf("validate role: %w", err)
	}
	if !ok {
		return domain.ErrRoleReference
	}
	return nil
}

func (s *UserService) writeFailed(err error, op string) error {
	if ce, ok := domain.IsConflict(err); ok {
		metrics.ConflictsTotal.WithLabelValues(domain.EntityUser, ce.Field).Inc()
		s.logger.Warn().Str("field", ce.Field).Msg(op + ": uniqueness conflict")
	} else if _, ok := domain.IsValidation(err); !ok && !domain.IsNotFound(err) {
		s.logger.Error().Err(err).Msg(op + " failed")
	}
	return fmt.Errorf("%s: %w", op, err)
}
