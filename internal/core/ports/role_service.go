package ports

import (
	"context"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// CreateRoleInput is the DTO passed from the transport layer to RoleService.
type CreateRoleInput struct {
	Name        string
	Description string
}

// UpdateRoleInput carries a role update. An omitted Name is left untouched;
// an omitted Description resets it to empty.
type UpdateRoleInput struct {
	Name        domain.Optional[string]
	Description domain.Optional[string]
}

// RoleService defines the role registry use cases.
type RoleService interface {
	CreateRole(ctx context.Context, input CreateRoleInput) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]*domain.Role, error)
	GetRole(ctx context.Context, id string) (*domain.Role, error)
	UpdateRole(ctx context.Context, id string, input UpdateRoleInput) (*domain.Role, error)
	DeleteRole(ctx context.Context, id string) (*domain.Role, error)
	RoleExists(ctx context.Context, id string) (bool, error)
}
