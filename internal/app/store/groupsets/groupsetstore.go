// internal/app/store/groupsets/groupsetstore.go
package groupsetstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/groupwork/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_sets")}
}

func (s *Store) Create(ctx context.Context, unitID primitive.ObjectID, name string) (models.GroupSet, error) {
	now := time.Now().UTC()
	gs := models.GroupSet{
		ID:        primitive.NewObjectID(),
		UnitID:    unitID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, gs); err != nil {
		return models.GroupSet{}, err
	}
	return gs, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupSet, error) {
	var gs models.GroupSet
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&gs); err != nil {
		return models.GroupSet{}, err
	}
	return gs, nil
}
