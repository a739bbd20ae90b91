// internal/domain/models/unit.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Unit is a course offering. Projects, group sets and task definitions all
// belong to exactly one unit.
type Unit struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Code      string             `bson:"code" json:"code"`
	Name      string             `bson:"name" json:"name"`
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Unit roles.
const (
	UnitRoleStudent  = "student"
	UnitRoleTutor    = "tutor"
	UnitRoleConvenor = "convenor"
)

// UnitRole records what a user is within one unit. Exactly one document per
// (unit_id, user_id).
type UnitRole struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UnitID    primitive.ObjectID `bson:"unit_id" json:"unit_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role      string             `bson:"role" json:"role"` // student | tutor | convenor
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// IsStaff reports whether the role may assess and manage the unit.
func (r UnitRole) IsStaff() bool {
	return r.Role == UnitRoleTutor || r.Role == UnitRoleConvenor
}
