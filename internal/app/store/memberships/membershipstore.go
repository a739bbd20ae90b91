// internal/app/store/memberships/membershipstore.go
package membershipstore

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

// Store keeps one row per (group_id, project_id). Rows are deactivated,
// never deleted, so the collection doubles as membership history.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_memberships")}
}

// ErrDuplicateMembership is returned by Insert when a row for the pair
// already exists, or when the project is already active elsewhere in the set.
var ErrDuplicateMembership = errors.New("membership already exists")

// Get returns the row for (groupID, projectID), or mongo.ErrNoDocuments.
func (s *Store) Get(ctx context.Context, groupID, projectID primitive.ObjectID) (models.GroupMembership, error) {
	var m models.GroupMembership
	if err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "project_id": projectID}).Decode(&m); err != nil {
		return models.GroupMembership{}, err
	}
	return m, nil
}

// Insert creates a new active row for group and projectID.
func (s *Store) Insert(ctx context.Context, group models.Group, projectID primitive.ObjectID) (models.GroupMembership, error) {
	now := time.Now().UTC()
	m := models.GroupMembership{
		ID:         primitive.NewObjectID(),
		GroupID:    group.ID,
		GroupSetID: group.GroupSetID,
		ProjectID:  projectID,
		Active:     true,
		JoinedAt:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.GroupMembership{}, ErrDuplicateMembership
		}
		return models.GroupMembership{}, err
	}
	return m, nil
}

// Reactivate marks an inactive row active again. It reports false when the
// row was already active or no longer exists.
func (s *Store) Reactivate(ctx context.Context, id primitive.ObjectID) (bool, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "active": false},
		bson.M{
			"$set":   bson.M{"active": true, "joined_at": now, "updated_at": now},
			"$unset": bson.M{"left_at": ""},
		},
	)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return false, ErrDuplicateMembership
		}
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// Deactivate clears the active flag on the (groupID, projectID) row. It
// reports false when there was no active row.
func (s *Store) Deactivate(ctx context.Context, groupID, projectID primitive.ObjectID) (bool, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"group_id": groupID, "project_id": projectID, "active": true},
		bson.M{"$set": bson.M{"active": false, "left_at": now, "updated_at": now}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// ActiveInSet returns the project's active row in setID. ok is false when
// the project is not in any group of the set.
func (s *Store) ActiveInSet(ctx context.Context, projectID, setID primitive.ObjectID) (m models.GroupMembership, ok bool, err error) {
	err = s.c.FindOne(ctx, bson.M{"project_id": projectID, "group_set_id": setID, "active": true}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.GroupMembership{}, false, nil
	}
	if err != nil {
		return models.GroupMembership{}, false, err
	}
	return m, true, nil
}

func (s *Store) projectIDs(ctx context.Context, filter bson.M) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ProjectID primitive.ObjectID `bson:"project_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, row.ProjectID)
	}
	return out, cur.Err()
}

// ActiveProjectIDs returns the projects currently in groupID.
func (s *Store) ActiveProjectIDs(ctx context.Context, groupID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.projectIDs(ctx, bson.M{"group_id": groupID, "active": true})
}

// InactiveProjectIDs returns the projects that were in groupID and are not
// now. The pair index guarantees such a project has no active row here.
func (s *Store) InactiveProjectIDs(ctx context.Context, groupID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.projectIDs(ctx, bson.M{"group_id": groupID, "active": false})
}

// ListByGroup returns every row for groupID, active and historical.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.GroupMembership, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.GroupMembership
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountForPair returns how many rows exist for (groupID, projectID).
func (s *Store) CountForPair(ctx context.Context, groupID, projectID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID, "project_id": projectID})
}
