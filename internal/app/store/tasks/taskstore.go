// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/groupwork/internal/domain/taskstatus"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// GetForProject returns projectID's task for defID, or mongo.ErrNoDocuments.
func (s *Store) GetForProject(ctx context.Context, projectID, defID primitive.ObjectID) (models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"project_id": projectID, "task_definition_id": defID}).Decode(&t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Ensure returns the project's task for def, creating it as not_submitted
// with full individual credit when it does not exist yet.
func (s *Store) Ensure(ctx context.Context, project models.Project, def models.TaskDefinition) (models.Task, error) {
	t, err := s.GetForProject(ctx, project.ID, def.ID)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Task{}, err
	}

	now := time.Now().UTC()
	t = models.Task{
		ID:               primitive.NewObjectID(),
		ProjectID:        project.ID,
		TaskDefinitionID: def.ID,
		UnitID:           def.UnitID,
		Status:           taskstatus.NotSubmitted,
		ContributionPct:  models.DefaultContributionPct,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return s.GetForProject(ctx, project.ID, def.ID)
		}
		return models.Task{}, err
	}
	return t, nil
}

// ListByProjectsAndDef returns the tasks for defID owned by any of projectIDs.
func (s *Store) ListByProjectsAndDef(ctx context.Context, projectIDs []primitive.ObjectID, defID primitive.ObjectID) ([]models.Task, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{
		"project_id":         bson.M{"$in": projectIDs},
		"task_definition_id": defID,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Task
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LinkContribution records a member's share and points the task at the
// group submission. Returns mongo.ErrNoDocuments if the task is gone.
func (s *Store) LinkContribution(ctx context.Context, taskID primitive.ObjectID, pct int, submissionID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": taskID},
		bson.M{"$set": bson.M{
			"contribution_pct":    pct,
			"group_submission_id": submissionID,
			"updated_at":          time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ApplyStatus moves a task from one status to another, stamping the
// submission and completion dates. The update only matches while the task
// still has status from; ok is false when another writer got there first.
func (s *Store) ApplyStatus(ctx context.Context, taskID primitive.ObjectID, from, to taskstatus.Status, at time.Time) (ok bool, err error) {
	set := bson.M{"status": to, "updated_at": at}
	update := bson.M{}

	switch {
	case to == taskstatus.ReadyToMark:
		set["submission_date"] = at
	case to == taskstatus.Complete:
		set["completion_date"] = at
	}
	if from == taskstatus.Complete && to != taskstatus.Complete {
		update["$unset"] = bson.M{"completion_date": ""}
	}
	update["$set"] = set

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": taskID, "status": from}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
