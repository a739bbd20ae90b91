// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/groupwork/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

// ErrAlreadyEnrolled is returned when the user already has a project in the unit.
var ErrAlreadyEnrolled = errors.New("user is already enrolled in this unit")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

// Enroll creates userID's project in unitID.
func (s *Store) Enroll(ctx context.Context, unitID, userID primitive.ObjectID) (models.Project, error) {
	now := time.Now().UTC()
	p := models.Project{
		ID:        primitive.NewObjectID(),
		UnitID:    unitID,
		UserID:    userID,
		Enrolled:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Project{}, ErrAlreadyEnrolled
		}
		return models.Project{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// GetByUnitAndUser returns userID's project in unitID.
func (s *Store) GetByUnitAndUser(ctx context.Context, unitID, userID primitive.ObjectID) (models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"unit_id": unitID, "user_id": userID}).Decode(&p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// ListByIDs returns the projects with the given IDs in no particular order.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AnyOwnedBy reports whether any of ids belongs to userID.
func (s *Store) AnyOwnedBy(ctx context.Context, ids []primitive.ObjectID, userID primitive.ObjectID) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}, "user_id": userID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
