package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// RoleRepository implements ports.RoleRepository using MongoDB.
type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

func roleIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "name", Value: 1}},
			Options: options.Index().
				SetName(indexRoleName).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isDeleted": false}),
		},
		{Keys: bson.D{{Key: "isDeleted", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
}

// liveByID matches a non-deleted role.
func liveByID(id any) bson.M {
	return bson.M{"_id": id, "isDeleted": false}
}

// Create inserts a new live role.
func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	doc := roleDocument{
		ID:          primitive.NewObjectID(),
		Name:        role.Name,
		Description: role.Description,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, translateWriteError(domain.EntityRole, "insert role", err)
	}
	return doc.toDomain(), nil
}

// List returns all live roles, newest first.
func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"isDeleted": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}

	var docs []roleDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}

	roles := make([]*domain.Role, len(docs))
	for i := range docs {
		roles[i] = docs[i].toDomain()
	}
	return roles, nil
}

// FindByID retrieves a live role.
func (r *RoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	oid, err := parseID(id, domain.ErrRoleNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var doc roleDocument
	if err := r.col.FindOne(ctx, liveByID(oid)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return doc.toDomain(), nil
}

// Update sets description, and name when supplied, in a single atomic write.
func (r *RoleRepository) Update(ctx context.Context, id string, name domain.Optional[string], description string) (*domain.Role, error) {
	set := bson.M{
		"description": description,
		"updatedAt":   time.Now().UTC(),
	}
	if name.Set {
		set["name"] = name.Value
	}
	return r.findAndSet(ctx, id, set, "update role")
}

// SoftDelete flags a live role as deleted. An already deleted role is not
// matched, so a repeated call returns domain.ErrRoleNotFound.
func (r *RoleRepository) SoftDelete(ctx context.Context, id string) (*domain.Role, error) {
	return r.findAndSet(ctx, id, bson.M{"isDeleted": true, "updatedAt": time.Now().UTC()}, "delete role")
}

// Exists reports whether a live role with id exists.
func (r *RoleRepository) Exists(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id, domain.ErrRoleNotFound)
	if err != nil {
		return false, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, liveByID(oid), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count roles: %w", err)
	}
	return n > 0, nil
}

func (r *RoleRepository) findAndSet(ctx context.Context, id string, set bson.M, op string) (*domain.Role, error) {
	oid, err := parseID(id, domain.ErrRoleNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc roleDocument
	err = r.col.FindOneAndUpdate(ctx, liveByID(oid), bson.M{"$set": set}, opts).Decode(&doc)
	switch {
	case err == nil:
		return doc.toDomain(), nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, domain.ErrRoleNotFound
	default:
		return nil, translateWriteError(domain.EntityRole, op, err)
	}
}
