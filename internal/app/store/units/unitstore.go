// internal/app/store/units/unitstore.go
package unitstore

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

var ErrDuplicateCode = errors.New("a unit with this code already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("units")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Unit, error) {
	var u models.Unit
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.Unit{}, err
	}
	return u, nil
}

func (s *Store) Create(ctx context.Context, u models.Unit) (models.Unit, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Code = strings.ToUpper(strings.TrimSpace(u.Code))
	u.Name = strings.TrimSpace(u.Name)
	u.Active = true
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Unit{}, ErrDuplicateCode
		}
		return models.Unit{}, err
	}
	return u, nil
}
