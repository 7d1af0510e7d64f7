package ports

import (
	"context"

	"github.com/99minutos/user-directory/internal/core/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// CreateUserInput carries the fields of a new user.
type CreateUserInput struct {
	Username  string
	Password  string
	Email     string
	FullName  string
	AvatarURL string
	Role      string
}

// ListUsersInput carries the parameters of the list endpoint. The transport
// layer fills in DefaultPage and DefaultLimit when the caller omits them.
type ListUsersInput struct {
	Username string
	FullName string
	Search   string
	Page     int
	Limit    int
}

// ListUsersResult is returned by ListUsers.
type ListUsersResult struct {
	Users      []*domain.User
	Pagination domain.Pagination
}

// UserService defines the user directory use cases.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	ListUsers(ctx context.Context, input ListUsersInput) (*ListUsersResult, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) (*domain.User, error)
	ActivateUser(ctx context.Context, email, username string) (*domain.User, error)
}
