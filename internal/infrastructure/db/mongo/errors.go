package mongo

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/user-directory/internal/core/domain"
)

const (
	indexRoleName     = "roles_name_live_unique"
	indexUserUsername = "users_username_live_unique"
	indexUserEmail    = "users_email_live_unique"
)

// uniqueFields maps each partial unique index to the field it guards.
var uniqueFields = map[string]string{
	indexRoleName:     "name",
	indexUserUsername: "username",
	indexUserEmail:    "email",
}

// translateWriteError turns a duplicate key failure into a
// *domain.ConflictError naming the offending field. Any other error is
// wrapped with op.
func translateWriteError(entity, op string, err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, err)
	}

	msg := err.Error()
	for index, field := range uniqueFields {
		if strings.Contains(msg, index) {
			return &domain.ConflictError{Entity: entity, Field: field}
		}
	}
	// Index created outside EnsureIndexes: fall back to the dup key document.
	for _, field := range uniqueFields {
		if strings.Contains(msg, "dup key: { "+field+":") {
			return &domain.ConflictError{Entity: entity, Field: field}
		}
	}
	return &domain.ConflictError{Entity: entity, Field: "value"}
}

// parseID converts a hex id. A malformed id can never match a stored record,
// so callers report it as notFound.
func parseID(id string, notFound error) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return oid, nil
}
