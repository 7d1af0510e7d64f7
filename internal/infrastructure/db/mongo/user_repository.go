package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

// UserRepository implements ports.UserRepository using MongoDB. Users are
// returned populated: the role reference is resolved against the roles
// collection regardless of the role's deletion flag.
type UserRepository struct {
	users *mongo.Collection
	roles *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users: db.Collection(collectionUsers),
		roles: db.Collection(collectionRoles),
	}
}

func userIndexes() []mongo.IndexModel {
	live := bson.M{"isDeleted": false}
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName(indexUserUsername).SetUnique(true).SetPartialFilterExpression(live),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(indexUserEmail).SetUnique(true).SetPartialFilterExpression(live),
		},
		{Keys: bson.D{{Key: "isDeleted", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
}

// newestFirst orders users by creation time; _id breaks ties so pages are stable.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// Create inserts a new user and returns it populated.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	roleID, err := primitive.ObjectIDFromHex(user.RoleID)
	if err != nil {
		return nil, domain.ErrRoleReference
	}

	doc := userDocument{
		ID:         primitive.NewObjectID(),
		Username:   user.Username,
		Password:   user.Password,
		Email:      user.Email,
		FullName:   user.FullName,
		AvatarURL:  user.AvatarURL,
		Role:       roleID,
		Status:     user.Status,
		LoginCount: user.LoginCount,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}

	insertCtx, cancel := withTimeout(ctx)
	defer cancel()
	if _, err := r.users.InsertOne(insertCtx, doc); err != nil {
		return nil, translateWriteError(domain.EntityUser, "insert user", err)
	}

	return r.populate(ctx, &doc)
}

// List returns one page of live users matching f and the total match count.
func (r *UserRepository) List(ctx context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := buildUserFilter(f)

	total, err := r.users.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	skip := int64(f.Page-1) * int64(f.Limit)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: newestFirst}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: int64(f.Limit)}},
	}
	users, err := r.aggregate(ctx, append(pipeline, populateStages()...))
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// FindByID retrieves a live user.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid, "isDeleted": false})
}

// FindByUsername retrieves a live user by exact username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "isDeleted": false})
}

// Update applies the set fields of patch to a live user.
func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	oid, err := parseID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	set, err := buildUserPatch(patch, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return r.findAndSet(ctx, bson.M{"_id": oid, "isDeleted": false}, set, "update user")
}

// SoftDelete flags a live user as deleted. A repeated call returns
// domain.ErrUserNotFound.
func (r *UserRepository) SoftDelete(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	set := bson.M{"isDeleted": true, "updatedAt": time.Now().UTC()}
	return r.findAndSet(ctx, bson.M{"_id": oid, "isDeleted": false}, set, "delete user")
}

// Activate sets status=true on the live user matching both email and username.
func (r *UserRepository) Activate(ctx context.Context, email, username string) (*domain.User, error) {
	filter := bson.M{"email": email, "username": username, "isDeleted": false}
	set := bson.M{"status": true, "updatedAt": time.Now().UTC()}
	return r.findAndSet(ctx, filter, set, "activate user")
}

func (r *UserRepository) findOne(ctx context.Context, match bson.M) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$limit", Value: int64(1)}},
	}
	users, err := r.aggregate(ctx, append(pipeline, populateStages()...))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return users[0], nil
}

func (r *UserRepository) findAndSet(ctx context.Context, filter, set bson.M, op string) (*domain.User, error) {
	updateCtx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDocument
	err := r.users.FindOneAndUpdate(updateCtx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	switch {
	case err == nil:
		return r.populate(ctx, &doc)
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, domain.ErrUserNotFound
	default:
		return nil, translateWriteError(domain.EntityUser, op, err)
	}
}

func (r *UserRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*domain.User, error) {
	cur, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate users: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, len(docs))
	for i := range docs {
		users[i] = docs[i].toDomain()
	}
	return users, nil
}

// populate resolves doc's role reference with a direct lookup, for documents
// obtained outside an aggregation.
func (r *UserRepository) populate(ctx context.Context, doc *userDocument) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var role roleDocument
	err := r.roles.FindOne(ctx, bson.M{"_id": doc.Role}).Decode(&role)
	switch {
	case err == nil:
		doc.RoleDoc = &role
	case errors.Is(err, mongo.ErrNoDocuments):
		doc.RoleDoc = nil
	default:
		return nil, fmt.Errorf("populate role: %w", err)
	}
	return doc.toDomain(), nil
}

// populateStages joins each user with its role document.
func populateStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionRoles},
			{Key: "localField", Value: "role"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "roleDoc"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$roleDoc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

// buildUserFilter translates a listing query into a Mongo filter. Text
// filters are literal, case-insensitive substring matches.
func buildUserFilter(f ports.ListUsersFilter) bson.M {
	filter := bson.M{"isDeleted": false}

	if f.Search != "" {
		rx := containsPattern(f.Search)
		filter["$or"] = bson.A{
			bson.M{"username": rx},
			bson.M{"fullName": rx},
		}
		return filter
	}

	if f.Username != "" {
		filter["username"] = containsPattern(f.Username)
	}
	if f.FullName != "" {
		filter["fullName"] = containsPattern(f.FullName)
	}
	return filter
}

func containsPattern(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// buildUserPatch returns the $set document for the fields present in p.
// updatedAt is always set so that an empty patch still resolves the target.
func buildUserPatch(p domain.UserPatch, now time.Time) (bson.M, error) {
	set := bson.M{"updatedAt": now}

	strs := []struct {
		key string
		opt domain.Optional[string]
	}{
		{"username", p.Username},
		{"password", p.Password},
		{"email", p.Email},
		{"fullName", p.FullName},
		{"avatarUrl", p.AvatarURL},
	}
	for _, s := range strs {
		if s.opt.Set {
			set[s.key] = s.opt.Value
		}
	}

	if p.Role.Set {
		oid, err := primitive.ObjectIDFromHex(p.Role.Value)
		if err != nil {
			return nil, domain.ErrRoleReference
		}
		set["role"] = oid
	}
	if p.Status.Set {
		set["status"] = p.Status.Value
	}
	if p.LoginCount.Set {
		set["loginCount"] = p.LoginCount.Value
	}
	return set, nil
}
