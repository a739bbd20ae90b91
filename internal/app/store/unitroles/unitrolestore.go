// internal/app/store/unitroles/unitrolestore.go
package unitrolestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/groupwork/internal/app/system/normalize"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var errBadRole = errors.New(`role must be "student", "tutor" or "convenor"`)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("unit_roles")}
}

// Assign sets userID's role in unitID, replacing any previous role.
func (s *Store) Assign(ctx context.Context, unitID, userID primitive.ObjectID, role string) (models.UnitRole, error) {
	role = normalize.Role(role)
	switch role {
	case models.UnitRoleStudent, models.UnitRoleTutor, models.UnitRoleConvenor:
	default:
		return models.UnitRole{}, errBadRole
	}

	filter := bson.M{"unit_id": unitID, "user_id": userID}
	update := bson.M{
		"$set":         bson.M{"role": role},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "created_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var r models.UnitRole
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&r); err != nil {
		return models.UnitRole{}, err
	}
	return r, nil
}

// Get returns userID's role in unitID, or mongo.ErrNoDocuments.
func (s *Store) Get(ctx context.Context, unitID, userID primitive.ObjectID) (models.UnitRole, error) {
	var r models.UnitRole
	if err := s.c.FindOne(ctx, bson.M{"unit_id": unitID, "user_id": userID}).Decode(&r); err != nil {
		return models.UnitRole{}, err
	}
	return r, nil
}

// ListStaff returns the tutors and convenors of a unit.
func (s *Store) ListStaff(ctx context.Context, unitID primitive.ObjectID) ([]models.UnitRole, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"unit_id": unitID,
		"role":    bson.M{"$in": bson.A{models.UnitRoleTutor, models.UnitRoleConvenor}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.UnitRole
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
