// internal/app/policy/unitpolicy/unitpolicy.go
package unitpolicy

import (
	"context"
	"errors"

	projectstore "github.com/dalemusser/groupwork/internal/app/store/projects"
	unitrolestore "github.com/dalemusser/groupwork/internal/app/store/unitroles"
	userstore "github.com/dalemusser/groupwork/internal/app/store/users"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/groupwork/internal/domain/taskstatus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Policy answers who may act on a unit's tasks and groups, using the
// authoritative unit_roles collection.
type Policy struct {
	users    *userstore.Store
	roles    *unitrolestore.Store
	projects *projectstore.Store
}

func New(db *mongo.Database) *Policy {
	return &Policy{
		users:    userstore.New(db),
		roles:    unitrolestore.New(db),
		projects: projectstore.New(db),
	}
}

// IsAdmin reports whether userID is an active system admin.
func (p *Policy) IsAdmin(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	u, err := p.users.GetByID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.Role == models.RoleAdmin && u.Status != models.StatusDisabled, nil
}

// IsStaff reports whether userID can manage unitID:
// - system admins always can
// - tutors and convenors of the unit can
// Returns an error if a lookup fails, so callers can tell "not staff"
// (false, nil) from "database error" (false, err).
func (p *Policy) IsStaff(ctx context.Context, unitID, userID primitive.ObjectID) (bool, error) {
	admin, err := p.IsAdmin(ctx, userID)
	if err != nil || admin {
		return admin, err
	}
	r, err := p.roles.Get(ctx, unitID, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return r.IsStaff(), nil
}

// OwnsTask reports whether task belongs to userID's project.
func (p *Policy) OwnsTask(ctx context.Context, task models.Task, userID primitive.ObjectID) (bool, error) {
	project, err := p.projects.GetByID(ctx, task.ProjectID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return project.UserID == userID, nil
}

// CanTrigger reports whether userID may fire trigger on task. Staff may
// fire any trigger; the task's own student only the student triggers.
func (p *Policy) CanTrigger(ctx context.Context, task models.Task, trigger taskstatus.Trigger, userID primitive.ObjectID) (bool, error) {
	staff, err := p.IsStaff(ctx, task.UnitID, userID)
	if err != nil || staff {
		return staff, err
	}
	if !trigger.StudentAllowed() {
		return false, nil
	}
	return p.OwnsTask(ctx, task, userID)
}
