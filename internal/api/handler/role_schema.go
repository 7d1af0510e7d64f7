package handler

import (
	"github.com/99minutos/user-directory/internal/core/domain"
)

type createRoleRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
}

// updateRoleRequest distinguishes an omitted field from an empty one.
type updateRoleRequest struct {
	Name        domain.Optional[string] `json:"name"        swaggertype:"string"`
	Description domain.Optional[string] `json:"description" swaggertype:"string"`
}

type roleResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    *domain.Role `json:"data"`
}

type roleListResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    []*domain.Role `json:"data"`
	Count   int            `json:"count"`
}

type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
