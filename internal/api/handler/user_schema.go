package handler

import (
	"github.com/99minutos/user-directory/internal/core/domain"
)

type createUserRequest struct {
	Username  string `json:"username"  validate:"required"`
	Password  string `json:"password"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
	Role      string `json:"role"      validate:"required"`
}

// updateUserRequest carries a partial update: only fields present in the
// body are applied, and a JSON null counts as absent.
type updateUserRequest struct {
	Username   domain.Optional[string] `json:"username"   swaggertype:"string"`
	Password   domain.Optional[string] `json:"password"   swaggertype:"string"`
	Email      domain.Optional[string] `json:"email"      swaggertype:"string"`
	FullName   domain.Optional[string] `json:"fullName"   swaggertype:"string"`
	AvatarURL  domain.Optional[string] `json:"avatarUrl"  swaggertype:"string"`
	Role       domain.Optional[string] `json:"role"       swaggertype:"string"`
	Status     domain.Optional[bool]   `json:"status"     swaggertype:"boolean"`
	LoginCount domain.Optional[int]    `json:"loginCount" swaggertype:"integer"`
}

func (r updateUserRequest) toPatch() domain.UserPatch {
	return domain.UserPatch{
		Username:   r.Username,
		Password:   r.Password,
		Email:      r.Email,
		FullName:   r.FullName,
		AvatarURL:  r.AvatarURL,
		Role:       r.Role,
		Status:     r.Status,
		LoginCount: r.LoginCount,
	}
}

type activateUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// listUsersQuery binds the query string of GET /users.
type listUsersQuery struct {
	Username string `query:"username"`
	FullName string `query:"fullName"`
	Search   string `query:"search"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

type userResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    *domain.User `json:"data"`
}

type userListResponse struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       []*domain.User    `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
}
