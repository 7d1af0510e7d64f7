package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-directory/internal/core/ports"
)

// UserHandler handles HTTP requests for the user directory.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /users.
//
// @Summary      Create a user
// @Description  The role must reference a live role. The created user is returned with its role populated.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Role:      req.Role,
	})
	if err != nil {
		return opCreateUser.wrap(err)
	}
	return c.JSON(http.StatusCreated, ok("User created successfully", user))
}

// List handles GET /users.
//
// @Summary      Search live users, newest first
// @Description  search matches username or fullName and takes precedence over the username and fullName filters.
// @Tags         users
// @Produce      json
// @Param        username  query     string  false  "Case-insensitive substring of username"
// @Param        fullName  query     string  false  "Case-insensitive substring of fullName"
// @Param        search    query     string  false  "Case-insensitive substring of username or fullName"
// @Param        page      query     int     false  "1-based page"      default(1)
// @Param        limit     query     int     false  "Page size (1-100)" default(10)
// @Success      200       {object}  userListResponse
// @Failure      400       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	q := listUsersQuery{Page: ports.DefaultPage, Limit: ports.DefaultLimit}
	if err := c.Bind(&q); err != nil {
		return err
	}

	result, err := h.service.ListUsers(c.Request().Context(), ports.ListUsersInput{
		Username: q.Username,
		FullName: q.FullName,
		Search:   q.Search,
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		return opListUsers.wrap(err)
	}

	resp := ok("Users retrieved successfully", result.Users)
	resp.Pagination = &result.Pagination
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return opGetUser.wrap(err)
	}
	return c.JSON(http.StatusOK, ok("User retrieved successfully", user))
}

// GetByUsername handles GET /users/username/:username.
//
// @Summary      Get a user by exact username
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  userResponse
// @Failure      404       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /users/username/{username} [get]
func (h *UserHandler) GetByUsername(c echo.Context) error {
	user, err := h.service.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return opGetUser.wrap(err)
	}
	return c.JSON(http.StatusOK, ok("User retrieved successfully", user))
}

// Update handles PUT /users/:id. Only the fields present in the body change.
//
// @Summary      Partially update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	user, err := h.service.UpdateUser(c.Request().Context(), c.Param("id"), req.toPatch())
	if err != nil {
		return opUpdateUser.wrap(err)
	}
	return c.JSON(http.StatusOK, ok("User updated successfully", user))
}

// Delete handles DELETE /users/:id.
//
// @Summary      Soft-delete a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	user, err := h.service.DeleteUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return opDeleteUser.wrap(err)
	}
	return c.JSON(http.StatusOK, ok("User deleted successfully", user))
}

// Activate handles POST /users/activate.
//
// @Summary      Activate a user identified by email and username
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      activateUserRequest  true  "Email and username"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users/activate [post]
func (h *UserHandler) Activate(c echo.Context) error {
	var req activateUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	user, err := h.service.ActivateUser(c.Request().Context(), req.Email, req.Username)
	if err != nil {
		return opActivateUser.wrap(err)
	}
	return c.JSON(http.StatusOK, ok("User activated successfully", user))
}
