package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
//
// Both stubs mirror the Mongo gateway: uniqueness holds among live records
// only, soft-deleted records stay in storage, reads skip them.
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubRoleRepo struct {
	mu     sync.Mutex
	seq    int
	byID   map[string]*domain.Role
	order  []string
	err    error // if set, every call returns this error
	exists int   // number of Exists calls
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{byID: make(map[string]*domain.Role)}
}

func (r *stubRoleRepo) nameTaken(name, exceptID string) bool {
	for id, role := range r.byID {
		if id != exceptID && !role.IsDeleted && role.Name == name {
			return true
		}
	}
	return false
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if r.nameTaken(role.Name, "") {
		return nil, &domain.ConflictError{Entity: domain.EntityRole, Field: "name"}
	}
	r.seq++
	clone := *role
	clone.ID = fmt.Sprintf("role-%03d", r.seq)
	r.byID[clone.ID] = &clone
	r.order = append(r.order, clone.ID)
	out := clone
	return &out, nil
}

func (r *stubRoleRepo) List(_ context.Context) ([]*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Role
	for i := len(r.order) - 1; i >= 0; i-- {
		role := r.byID[r.order[i]]
		if role.IsDeleted {
			continue
		}
		clone := *role
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubRoleRepo) live(id string) (*domain.Role, error) {
	role, ok := r.byID[id]
	if !ok || role.IsDeleted {
		return nil, domain.ErrRoleNotFound
	}
	return role, nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	role, err := r.live(id)
	if err != nil {
		return nil, err
	}
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) Update(_ context.Context, id string, name domain.Optional[string], description string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	role, err := r.live(id)
	if err != nil {
		return nil, err
	}
	if name.Set && r.nameTaken(name.Value, id) {
		return nil, &domain.ConflictError{Entity: domain.EntityRole, Field: "name"}
	}
	if name.Set {
		role.Name = name.Value
	}
	role.Description = description
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) SoftDelete(_ context.Context, id string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	role, err := r.live(id)
	if err != nil {
		return nil, err
	}
	role.IsDeleted = true
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exists++
	if r.err != nil {
		return false, r.err
	}
	_, err := r.live(id)
	return err == nil, nil
}

// raw returns the stored record regardless of its deletion flag.
func (r *stubRoleRepo) raw(id string) *domain.Role {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

type stubUserRepo struct {
	mu        sync.Mutex
	seq       int
	byID      map[string]*domain.User
	order     []string
	roles     *stubRoleRepo
	createErr error
	lastList  ports.ListUsersFilter
}

func newStubUserRepo(roles *stubRoleRepo) *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User), roles: roles}
}

func (r *stubUserRepo) conflict(username, email, exceptID string) error {
	for id, u := range r.byID {
		if id == exceptID || u.IsDeleted {
			continue
		}
		if username != "" && u.Username == username {
			return &domain.ConflictError{Entity: domain.EntityUser, Field: "username"}
		}
		if email != "" && u.Email == email {
			return &domain.ConflictError{Entity: domain.EntityUser, Field: "email"}
		}
	}
	return nil
}

// populated mirrors $lookup: the role is resolved regardless of its
// deletion flag.
func (r *stubUserRepo) populated(u *domain.User) *domain.User {
	clone := *u
	if role := r.roles.raw(u.RoleID); role != nil {
		rc := *role
		clone.Role = &rc
	}
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	if err := r.conflict(user.Username, user.Email, ""); err != nil {
		return nil, err
	}
	r.seq++
	clone := *user
	clone.ID = fmt.Sprintf("user-%03d", r.seq)
	r.byID[clone.ID] = &clone
	r.order = append(r.order, clone.ID)
	return r.populated(&clone), nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = f

	contains := func(s, sub string) bool {
		return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	}

	var matched []*domain.User
	for i := len(r.order) - 1; i >= 0; i-- {
		u := r.byID[r.order[i]]
		if u.IsDeleted {
			continue
		}
		if f.Search != "" {
			if !contains(u.Username, f.Search) && !contains(u.FullName, f.Search) {
				continue
			}
		} else {
			if f.Username != "" && !contains(u.Username, f.Username) {
				continue
			}
			if f.FullName != "" && !contains(u.FullName, f.FullName) {
				continue
			}
		}
		matched = append(matched, r.populated(u))
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip > len(matched) {
		return []*domain.User{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubUserRepo) live(id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok || u.IsDeleted {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.live(id)
	if err != nil {
		return nil, err
	}
	return r.populated(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if !u.IsDeleted && u.Username == username {
			return r.populated(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.live(id)
	if err != nil {
		return nil, err
	}
	var username, email string
	if p.Username.Set {
		username = p.Username.Value
	}
	if p.Email.Set {
		email = p.Email.Value
	}
	if err := r.conflict(username, email, id); err != nil {
		return nil, err
	}
	if p.Username.Set {
		u.Username = p.Username.Value
	}
	if p.Password.Set {
		u.Password = p.Password.Value
	}
	if p.Email.Set {
		u.Email = p.Email.Value
	}
	if p.FullName.Set {
		u.FullName = p.FullName.Value
	}
	if p.AvatarURL.Set {
		u.AvatarURL = p.AvatarURL.Value
	}
	if p.Role.Set {
		u.RoleID = p.Role.Value
	}
	if p.Status.Set {
		u.Status = p.Status.Value
	}
	if p.LoginCount.Set {
		u.LoginCount = p.LoginCount.Value
	}
	return r.populated(u), nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.live(id)
	if err != nil {
		return nil, err
	}
	u.IsDeleted = true
	return r.populated(u), nil
}

func (r *stubUserRepo) Activate(_ context.Context, email, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if !u.IsDeleted && u.Email == email && u.Username == username {
			u.Status = true
			return r.populated(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *stubUserRepo) raw(id string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

// recordingPublisher captures published audit events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (p *recordingPublisher) Publish(e domain.AuditEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) actions() []domain.AuditAction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.AuditAction, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action
	}
	return out
}
