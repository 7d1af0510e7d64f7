package ports

import (
	"context"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// RoleRepository defines persistence operations for roles. Every read and
// write targets live (non-deleted) roles only. Uniqueness violations on the
// role name surface as *domain.ConflictError.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	// List returns live roles, most recently created first.
	List(ctx context.Context) ([]*domain.Role, error)
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	// Update replaces description and, when name is set, the name.
	Update(ctx context.Context, id string, name domain.Optional[string], description string) (*domain.Role, error)
	SoftDelete(ctx context.Context, id string) (*domain.Role, error)
	Exists(ctx context.Context, id string) (bool, error)
}
