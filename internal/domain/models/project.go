// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is one student's enrollment in a unit. Tasks and group
// memberships hang off the project, not the user.
type Project struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UnitID    primitive.ObjectID `bson:"unit_id" json:"unit_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"` // the student
	Enrolled  bool               `bson:"enrolled" json:"enrolled"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
