package ports

import (
	"context"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// ListUsersFilter carries the query of a user listing. When Search is set,
// Username and FullName are ignored.
type ListUsersFilter struct {
	Username string // optional: case-insensitive substring of username
	FullName string // optional: case-insensitive substring of fullName
	Search   string // optional: case-insensitive substring of username OR fullName
	Page     int    // 1-based
	Limit    int
}

// UserRepository defines persistence operations for users. Returned users
// are populated with their role. Uniqueness violations on username or email
// surface as *domain.ConflictError naming the field.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// List returns a page of live users matching filter, newest first, and the
	// total number of matches.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	SoftDelete(ctx context.Context, id string) (*domain.User, error)
	// Activate sets status=true on the live user matching both email and username.
	Activate(ctx context.Context, email, username string) (*domain.User, error)
}
