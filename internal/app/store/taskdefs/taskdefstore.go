// internal/app/store/taskdefs/taskdefstore.go
package taskdefstore

import (
	"context"
	"errors"
	"strings"
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

var ErrDuplicateAbbreviation = errors.New("a task definition with this abbreviation already exists in the unit")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("task_definitions")}
}

func (s *Store) Create(ctx context.Context, d models.TaskDefinition) (models.TaskDefinition, error) {
	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.Name = strings.TrimSpace(d.Name)
	d.Abbreviation = strings.TrimSpace(d.Abbreviation)
	d.CreatedAt = now
	d.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		if wafflemongo.IsDup(err) {
			return models.TaskDefinition{}, ErrDuplicateAbbreviation
		}
		return models.TaskDefinition{}, err
	}
	return d, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.TaskDefinition, error) {
	var d models.TaskDefinition
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return models.TaskDefinition{}, err
	}
	return d, nil
}
