package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

func sampleUser() *domain.User {
	return &domain.User{
		ID:       "u1",
		Username: "alice",
		Password: "secret",
		Email:    "alice@example.com",
		FullName: "Alice Liddell",
		RoleID:   "r1",
		Role:     &domain.Role{ID: "r1", Name: "admin"},
	}
}

func TestUserHandler_Create_Success(t *testing.T) {
	e := newTestEcho(true)
	stub := &stubUserService{
		createFn: func(_ context.Context, input ports.CreateUserInput) (*domain.User, error) {
			if input.Username != "alice" || input.Role != "r1" || input.FullName != "Alice Liddell" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return sampleUser(), nil
		},
	}

	body := `{"username":"alice","password":"secret","email":"alice@example.com","fullName":"Alice Liddell","role":"r1"}`
	rec, resp := serve(t, e, NewUserHandler(stub).Create, http.MethodPost, "/users", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if resp.Message != "User created successfully" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if strings.Contains(string(resp.Data), "secret") {
		t.Errorf("password leaked: %s", resp.Data)
	}

	var user map[string]any
	decodeData(t, resp, &user)
	role, ok := user["role"].(map[string]any)
	if !ok || role["name"] != "admin" {
		t.Errorf("expected populated role, got %v", user["role"])
	}
}

func TestUserHandler_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing username", `{"password":"p","email":"a@example.com","role":"r1"}`, "Username is required"},
		{"bad email", `{"username":"a","password":"p","email":"nope","role":"r1"}`, "Email must be a valid email"},
		{"missing role", `{"username":"a","password":"p","email":"a@example.com"}`, "Role is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubUserService{
				createFn: func(context.Context, ports.CreateUserInput) (*domain.User, error) {
					t.Fatal("should not be called")
					return nil, nil
				},
			}
			rec, resp := serve(t, newTestEcho(true), NewUserHandler(stub).Create, http.MethodPost, "/users", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if resp.Message != tc.want {
				t.Errorf("message = %q, want %q", resp.Message, tc.want)
			}
		})
	}
}

func TestUserHandler_Create_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"dangling role", domain.ErrRoleReference, "Role not found"},
		{"duplicate username", &domain.ConflictError{Entity: domain.EntityUser, Field: "username"}, "username already exists"},
		{"duplicate email", &domain.ConflictError{Entity: domain.EntityUser, Field: "email"}, "email already exists"},
	}
	body := `{"username":"alice","password":"secret","email":"alice@example.com","role":"r1"}`
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubUserService{
				createFn: func(context.Context, ports.CreateUserInput) (*domain.User, error) {
					return nil, tc.err
				},
			}
			rec, resp := serve(t, newTestEcho(true), NewUserHandler(stub).Create, http.MethodPost, "/users", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if resp.Message != tc.want {
				t.Errorf("message = %q, want %q", resp.Message, tc.want)
			}
		})
	}
}

func TestUserHandler_List_Defaults(t *testing.T) {
	e := newTestEcho(true)
	stub := &stubUserService{
		listFn: func(_ context.Context, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
			if input.Page != 1 || input.Limit != 10 {
				t.Errorf("expected defaults page=1 limit=10, got %+v", input)
			}
			return &ports.ListUsersResult{
				Users:      []*domain.User{sampleUser()},
				Pagination: domain.NewPagination(1, 10, 1),
			}, nil
		},
	}

	rec, resp := serve(t, e, NewUserHandler(stub).List, http.MethodGet, "/users", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp.Message != "Users retrieved successfully" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.Pagination == nil || resp.Pagination.TotalPages != 1 || resp.Pagination.TotalUsers != 1 {
		t.Errorf("unexpected pagination: %+v", resp.Pagination)
	}
	if resp.Count != nil {
		t.Errorf("count should be absent on user lists")
	}
}

func TestUserHandler_List_QueryParams(t *testing.T) {
	e := newTestEcho(true)
	stub := &stubUserService{
		listFn: func(_ context.Context, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
			want := ports.ListUsersInput{Username: "al", FullName: "Nat", Search: "ali", Page: 3, Limit: 5}
			if input != want {
				t.Errorf("input = %+v, want %+v", input, want)
			}
			return &ports.ListUsersResult{Users: []*domain.User{}, Pagination: domain.NewPagination(3, 5, 0)}, nil
		},
	}

	rec, resp := serve(t, e, NewUserHandler(stub).List, http.MethodGet, "/users?username=al&fullName=Nat&search=ali&page=3&limit=5", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if string(resp.Data) != "[]" {
		t.Errorf("expected empty array, got %s", resp.Data)
	}
}

func TestUserHandler_List_NonNumericPage(t *testing.T) {
	stub := &stubUserService{
		listFn: func(context.Context, ports.ListUsersInput) (*ports.ListUsersResult, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}

	rec, _ := serve(t, newTestEcho(true), NewUserHandler(stub).List, http.MethodGet, "/users?page=abc", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_List_InvalidLimit(t *testing.T) {
	stub := &stubUserService{
		listFn: func(context.Context, ports.ListUsersInput) (*ports.ListUsersResult, error) {
			return nil, domain.NewValidationError("limit", "limit must be between 1 and %d", ports.MaxLimit)
		},
	}

	rec, resp := serve(t, newTestEcho(true), NewUserHandler(stub).List, http.MethodGet, "/users?limit=0", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp.Message != "Limit must be between 1 and 100" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestUserHandler_GetByUsername(t *testing.T) {
	stub := &stubUserService{
		byUsernameFn: func(_ context.Context, username string) (*domain.User, error) {
			if username != "alice" {
				return nil, domain.ErrUserNotFound
			}
			return sampleUser(), nil
		},
	}
	h := NewUserHandler(stub)

	rec, resp := serve(t, newTestEcho(true), h.GetByUsername, http.MethodGet, "/users/username/alice", "", "username", "alice")
	if rec.Code != http.StatusOK || resp.Message != "User retrieved successfully" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, resp)
	}

	rec, resp = serve(t, newTestEcho(true), h.GetByUsername, http.MethodGet, "/users/username/bob", "", "username", "bob")
	if rec.Code != http.StatusNotFound || resp.Message != "User not found" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, resp)
	}
}

func TestUserHandler_Update_PartialBody(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
			if id != "u1" {
				t.Fatalf("unexpected id %q", id)
			}
			if !patch.FullName.Set || patch.FullName.Value != "X" {
				t.Errorf("fullName not applied: %+v", patch.FullName)
			}
			if patch.Username.Set || patch.Email.Set || patch.Role.Set {
				t.Errorf("omitted fields must stay unset: %+v", patch)
			}
			if patch.AvatarURL.Set {
				t.Errorf("null avatarUrl must count as omitted")
			}
			if !patch.Status.Set || !patch.Status.Value {
				t.Errorf("status not applied: %+v", patch.Status)
			}
			u := sampleUser()
			u.FullName = patch.FullName.Value
			return u, nil
		},
	}

	body := `{"fullName":"X","avatarUrl":null,"status":true}`
	rec, resp := serve(t, newTestEcho(true), NewUserHandler(stub).Update, http.MethodPut, "/users/u1", body, "id", "u1")

	if rec.Code != http.StatusOK || resp.Message != "User updated successfully" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, resp)
	}
}

func TestUserHandler_Delete_NotFound(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}

	rec, resp := serve(t, newTestEcho(true), NewUserHandler(stub).Delete, http.MethodDelete, "/users/u1", "", "id", "u1")

	if rec.Code != http.StatusNotFound || resp.Message != "User not found" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, resp)
	}
}

func TestUserHandler_Activate(t *testing.T) {
	stub := &stubUserService{
		activateFn: func(_ context.Context, email, username string) (*domain.User, error) {
			if email == "" || username == "" {
				return nil, domain.NewValidationError("email", "email and username are required")
			}
			if email != "alice@example.com" || username != "alice" {
				return nil, domain.ErrUserNotFound
			}
			u := sampleUser()
			u.Status = true
			return u, nil
		},
	}
	h := NewUserHandler(stub)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{"match", `{"email":"alice@example.com","username":"alice"}`, http.StatusOK, "User activated successfully"},
		{"mismatch", `{"email":"alice@example.com","username":"bob"}`, http.StatusNotFound, "User not found with provided email and username"},
		{"missing field", `{"email":"alice@example.com"}`, http.StatusBadRequest, "Email and username are required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, resp := serve(t, newTestEcho(true), h.Activate, http.MethodPost, "/users/activate", tc.body)
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if resp.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", resp.Message, tc.wantMsg)
			}
		})
	}
}
