// internal/domain/models/task.go
package models

import (
	"time"

	"github.com/dalemusser/groupwork/internal/domain/taskstatus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskDefinition is a piece of assessed work in a unit. A non-nil GroupSetID
// makes it a group task.
type TaskDefinition struct {
	ID           primitive.ObjectID  `bson:"_id" json:"id"`
	UnitID       primitive.ObjectID  `bson:"unit_id" json:"unit_id"`
	GroupSetID   *primitive.ObjectID `bson:"group_set_id,omitempty" json:"group_set_id,omitempty"`
	Name         string              `bson:"name" json:"name"`
	Abbreviation string              `bson:"abbreviation" json:"abbreviation"`
	TargetDate   *time.Time          `bson:"target_date,omitempty" json:"target_date,omitempty"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updated_at"`
}

// IsGroupTask reports whether the definition is linked to a group set.
func (d TaskDefinition) IsGroupTask() bool {
	return d.GroupSetID != nil
}

// DefaultContributionPct is full individual credit.
const DefaultContributionPct = 100

// Task is one project's copy of a task definition.
type Task struct {
	ID                primitive.ObjectID  `bson:"_id" json:"id"`
	ProjectID         primitive.ObjectID  `bson:"project_id" json:"project_id"`
	TaskDefinitionID  primitive.ObjectID  `bson:"task_definition_id" json:"task_definition_id"`
	UnitID            primitive.ObjectID  `bson:"unit_id" json:"unit_id"`
	Status            taskstatus.Status   `bson:"status" json:"status"`
	ContributionPct   int                 `bson:"contribution_pct" json:"contribution_pct"`
	GroupSubmissionID *primitive.ObjectID `bson:"group_submission_id,omitempty" json:"group_submission_id,omitempty"`
	SubmissionDate    *time.Time          `bson:"submission_date,omitempty" json:"submission_date,omitempty"`
	CompletionDate    *time.Time          `bson:"completion_date,omitempty" json:"completion_date,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GroupSubmission is the single shared record of a group's work on a task
// definition. It is written once and never updated; every participating
// member's Task points at it.
type GroupSubmission struct {
	ID                   primitive.ObjectID `bson:"_id" json:"id"`
	GroupID              primitive.ObjectID `bson:"group_id" json:"group_id"`
	TaskDefinitionID     primitive.ObjectID `bson:"task_definition_id" json:"task_definition_id"`
	Notes                string             `bson:"notes" json:"notes"`
	SubmittedByProjectID primitive.ObjectID `bson:"submitted_by_project_id" json:"submitted_by_project_id"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
}
