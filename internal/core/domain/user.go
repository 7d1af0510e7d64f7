package domain

import "time"

// User is an account in the directory. RoleID is the stored reference; Role
// is the populated view of it and is nil when the reference does not resolve.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Password   string    `json:"-"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	AvatarURL  string    `json:"avatarUrl"`
	RoleID     string    `json:"-"`
	Role       *Role     `json:"role"`
	Status     bool      `json:"status"`
	LoginCount int       `json:"loginCount"`
	IsDeleted  bool      `json:"isDeleted"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UserPatch carries a partial update. Only fields with Set == true are applied.
type UserPatch struct {
	Username   Optional[string]
	Password   Optional[string]
	Email      Optional[string]
	FullName   Optional[string]
	AvatarURL  Optional[string]
	Role       Optional[string]
	Status     Optional[bool]
	LoginCount Optional[int]
}

// IsEmpty reports whether the patch carries no field at all.
func (p UserPatch) IsEmpty() bool {
	return !p.Username.Set && !p.Password.Set && !p.Email.Set && !p.FullName.Set &&
		!p.AvatarURL.Set && !p.Role.Set && !p.Status.Set && !p.LoginCount.Set
}
