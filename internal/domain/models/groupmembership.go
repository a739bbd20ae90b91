// internal/domain/models/groupmembership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupMembership is the authoritative join between projects and groups.
// Exactly one document per (group_id, project_id); leaving a group clears
// Active instead of deleting the row, and rejoining sets it again.
type GroupMembership struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID    primitive.ObjectID `bson:"group_id" json:"group_id"`
	GroupSetID primitive.ObjectID `bson:"group_set_id" json:"group_set_id"` // copied from the group
	ProjectID  primitive.ObjectID `bson:"project_id" json:"project_id"`
	Active     bool               `bson:"active" json:"active"`
	JoinedAt   time.Time          `bson:"joined_at" json:"joined_at"` // most recent join
	LeftAt     *time.Time         `bson:"left_at,omitempty" json:"left_at,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
