package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-directory/internal/core/ports"
)

// RoleHandler handles HTTP requests for the role registry.
type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// Create handles POST /roles.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body      createRoleRequest  true  "Role"
// @Success      201   {object}  roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role, err := h.service.CreateRole(c.Request().Context(), ports.CreateRoleInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return opCreateRole.wrap(err)
	}
	return c.JSON(http.StatusCreated, ok("Role created successfully", role))
}

// List handles GET /roles.
//
// @Summary      List live roles, newest first
// @Tags         roles
// @Produce      json
// @Success      200  {object}  roleListResponse
// @Failure      500  {object}  errorResponse
// @Router       /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.service.ListRoles(c.Request().Context())
	if err != nil {
		return opListRoles.wrap(err)
	}
	count := len(roles)
	resp := ok("Roles retrieved successfully", roles)
	resp.Count = &count
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /roles/:id.
//
// @Summary      Get a role by id
// @Tags         roles
// @Produce      json
// @Param        id   path      string  true  "Role id"
// @Success      200  {object}  roleResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	role, err := h.service.GetRole(c.Request().Context(), c.Param("id"))
	if err != nil {
		return opGetRole.wrap(err)
	}
	return c.JSON(http.StatusOK, ok("Role retrieved successfully", role))
}

// Update handles PUT /roles/:id. An omitted description is reset to empty.
//
// @Summary      Update a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Role id"
// @Param        body  body      updateRoleRequest  true  "Fields to replace"
// @Success      200   {object}  roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	role, err := h.service.UpdateRole(c.Request().Context(), c.Param("id"), ports.UpdateRoleInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return opUpdateRole.wrap(err)
	}
	return c.JSON(http.StatusOK, ok("Role updated successfully", role))
}

// Delete handles DELETE /roles/:id.
//
// @Summary      Soft-delete a role
// @Tags         roles
// @Produce      json
// @Param        id   path      string  true  "Role id"
// @Success      200  {object}  roleResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	role, err := h.service.DeleteRole(c.Request().Context(), c.Param("id"))
	if err != nil {
		return opDeleteRole.wrap(err)
	}
	return c.JSON(http.StatusOK, ok("Role deleted successfully", role))
}
