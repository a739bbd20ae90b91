// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupSet is a family of groups within a unit. A project is active in at
// most one group of a set at a time.
type GroupSet struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UnitID    primitive.ObjectID `bson:"unit_id" json:"unit_id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Group is a team of projects inside a group set.
//
// NOTE:
//   - Members are not embedded on Group.
//     All membership history lives in the group_memberships collection.
type Group struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	GroupSetID primitive.ObjectID `bson:"group_set_id" json:"group_set_id"`
	UnitID     primitive.ObjectID `bson:"unit_id" json:"unit_id"`
	Name       string             `bson:"name" json:"name"`
	NameCI     string             `bson:"name_ci" json:"-"`
	Number     int                `bson:"number" json:"number"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
