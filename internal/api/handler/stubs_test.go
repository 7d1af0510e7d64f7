package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

type stubRoleService struct {
	createFn func(ctx context.Context, input ports.CreateRoleInput) (*domain.Role, error)
	listFn   func(ctx context.Context) ([]*domain.Role, error)
	getFn    func(ctx context.Context, id string) (*domain.Role, error)
	updateFn func(ctx context.Context, id string, input ports.UpdateRoleInput) (*domain.Role, error)
	deleteFn func(ctx context.Context, id string) (*domain.Role, error)
}

func (s *stubRoleService) CreateRole(ctx context.Context, input ports.CreateRoleInput) (*domain.Role, error) {
	return s.createFn(ctx, input)
}

func (s *stubRoleService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.listFn(ctx)
}

func (s *stubRoleService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	return s.getFn(ctx, id)
}

func (s *stubRoleService) UpdateRole(ctx context.Context, id string, input ports.UpdateRoleInput) (*domain.Role, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubRoleService) DeleteRole(ctx context.Context, id string) (*domain.Role, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubRoleService) RoleExists(context.Context, string) (bool, error) {
	return false, nil
}

type stubUserService struct {
	createFn     func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error)
	listFn       func(ctx context.Context, input ports.ListUsersInput) (*ports.ListUsersResult, error)
	getFn        func(ctx context.Context, id string) (*domain.User, error)
	byUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	updateFn     func(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	deleteFn     func(ctx context.Context, id string) (*domain.User, error)
	activateFn   func(ctx context.Context, email, username string) (*domain.User, error)
}

func (s *stubUserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, input)
}

func (s *stubUserService) ListUsers(ctx context.Context, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	return s.listFn(ctx, input)
}

func (s *stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.byUsernameFn(ctx, username)
}

func (s *stubUserService) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubUserService) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) ActivateUser(ctx context.Context, email, username string) (*domain.User, error) {
	return s.activateFn(ctx, email, username)
}

// testResponse mirrors envelope with concrete types for assertions.
type testResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Error      string             `json:"error"`
	Pagination *domain.Pagination `json:"pagination"`
	Count      *int               `json:"count"`
}

func newTestEcho(exposeInternal bool) *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop(), exposeInternal)
	return e
}

// serve runs h against a request and routes any returned error through the
// echo error handler, as the router would. params are name/value pairs.
func serve(t *testing.T, e *echo.Echo, h echo.HandlerFunc, method, target, body string, params ...string) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	var resp testResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func decodeData(t *testing.T, resp testResponse, dst any) {
	t.Helper()
	if err := json.Unmarshal(resp.Data, dst); err != nil {
		t.Fatalf("invalid data %q: %v", resp.Data, err)
	}
}
