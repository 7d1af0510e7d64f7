package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/99minutos/user-directory/internal/core/domain"
)

const (
	collectionRoles = "roles"
	collectionUsers = "users"
	collectionAudit = "audit_events"
)

type roleDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	IsDeleted   bool               `bson:"isDeleted"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *roleDocument) toDomain() *domain.Role {
	return &domain.Role{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		IsDeleted:   d.IsDeleted,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// userDocument is the stored shape of a user. RoleDoc is only filled by the
// $lookup stage or by an explicit populate and is never written.
type userDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Username   string             `bson:"username"`
	Password   string             `bson:"password"`
	Email      string             `bson:"email"`
	FullName   string             `bson:"fullName"`
	AvatarURL  string             `bson:"avatarUrl"`
	Role       primitive.ObjectID `bson:"role"`
	Status     bool               `bson:"status"`
	LoginCount int                `bson:"loginCount"`
	IsDeleted  bool               `bson:"isDeleted"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
	RoleDoc    *roleDocument      `bson:"roleDoc,omitempty"`
}

func (d *userDocument) toDomain() *domain.User {
	u := &domain.User{
		ID:         d.ID.Hex(),
		Username:   d.Username,
		Password:   d.Password,
		Email:      d.Email,
		FullName:   d.FullName,
		AvatarURL:  d.AvatarURL,
		RoleID:     d.Role.Hex(),
		Status:     d.Status,
		LoginCount: d.LoginCount,
		IsDeleted:  d.IsDeleted,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
	if d.RoleDoc != nil {
		u.Role = d.RoleDoc.toDomain()
	}
	return u
}

type auditDocument struct {
	Entity     string             `bson:"entity"`
	EntityID   primitive.ObjectID `bson:"entityId"`
	Action     string             `bson:"action"`
	At         time.Time          `bson:"at"`
	RecordedAt time.Time          `bson:"recordedAt"`
}
