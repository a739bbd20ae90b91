// internal/app/store/groupsubmissions/submissionstore.go
package submissionstore

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

// Store holds write-once group submissions, unique per
// (group_id, task_definition_id).
type Store struct {
	c *mongo.Collection
}

// ErrDuplicateSubmission is returned by Insert when the group already has a
// submission for the task definition.
var ErrDuplicateSubmission = errors.New("group already has a submission for this task")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_submissions")}
}

// Find returns the submission for (groupID, defID). ok is false when none exists.
func (s *Store) Find(ctx context.Context, groupID, defID primitive.ObjectID) (gs models.GroupSubmission, ok bool, err error) {
	err = s.c.FindOne(ctx, bson.M{"group_id": groupID, "task_definition_id": defID}).Decode(&gs)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.GroupSubmission{}, false, nil
	}
	if err != nil {
		return models.GroupSubmission{}, false, err
	}
	return gs, true, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupSubmission, error) {
	var gs models.GroupSubmission
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&gs); err != nil {
		return models.GroupSubmission{}, err
	}
	return gs, nil
}

// Insert stores gs with a fresh ID and creation time.
func (s *Store) Insert(ctx context.Context, gs models.GroupSubmission) (models.GroupSubmission, error) {
	gs.ID = primitive.NewObjectID()
	gs.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, gs); err != nil {
		if wafflemongo.IsDup(err) {
			return models.GroupSubmission{}, ErrDuplicateSubmission
		}
		return models.GroupSubmission{}, err
	}
	return gs, nil
}

// CountByGroupAndDef returns how many submissions exist for the pair; the
// unique index keeps it at most one.
func (s *Store) CountByGroupAndDef(ctx context.Context, groupID, defID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID, "task_definition_id": defID})
}
