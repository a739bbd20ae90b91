// internal/app/groupwork/ledger.go
package groupwork

import (
	"context"
	"errors"

	membershipstore "github.com/dalemusser/groupwork/internal/app/store/memberships"
	"github.com/dalemusser/groupwork/internal/app/system/txn"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrUnitMismatch is returned when a project is added to a group of another unit.
var ErrUnitMismatch = errors.New("project and group belong to different units")

func memberLockKey(projectID, setID primitive.ObjectID) string {
	return projectID.Hex() + ":" + setID.Hex()
}

// AddMember makes projectID an active member of groupID.
//   - already active: no-op
//   - a historical row exists: it is reactivated
//   - otherwise a new row is created
//
// If the project is active in another group of the same group set, that
// membership is deactivated first.
func (s *Service) AddMember(ctx context.Context, groupID, projectID primitive.ObjectID) error {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return notFound(err)
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return notFound(err)
	}
	if project.UnitID != group.UnitID {
		return ErrUnitMismatch
	}

	unlock := s.memberLocks.Lock(memberLockKey(projectID, group.GroupSetID))
	defer unlock()

	var (
		changed     bool
		reactivated bool
		previous    *primitive.ObjectID
	)
	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		changed, reactivated, previous = false, false, nil

		row, getErr := s.memberships.Get(ctx, groupID, projectID)
		if getErr == nil && row.Active {
			return nil
		}
		if getErr != nil && !errors.Is(getErr, mongo.ErrNoDocuments) {
			return getErr
		}

		// Leave the old group before joining; the partial unique index
		// allows one active row per (project, group set).
		cur, ok, err := s.memberships.ActiveInSet(ctx, projectID, group.GroupSetID)
		if err != nil {
			return err
		}
		if ok {
			if _, err := s.memberships.Deactivate(ctx, cur.GroupID, projectID); err != nil {
				return err
			}
			prev := cur.GroupID
			previous = &prev
		}

		if getErr == nil {
			if _, err := s.memberships.Reactivate(ctx, row.ID); err != nil {
				return err
			}
			reactivated = true
		} else if _, err := s.memberships.Insert(ctx, group, projectID); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if errors.Is(err, membershipstore.ErrDuplicateMembership) {
		// Another process won the race; fine if it left the pair active.
		row, getErr := s.memberships.Get(ctx, groupID, projectID)
		if getErr == nil && row.Active {
			return nil
		}
	}
	if err != nil {
		s.log.Error("add member failed",
			zap.String("group_id", groupID.Hex()),
			zap.String("project_id", projectID.Hex()),
			zap.Error(err))
		return err
	}

	if changed {
		s.audit.MemberAdded(ctx, group.UnitID, groupID, projectID, actorFrom(ctx), previous, reactivated)
	}
	return nil
}

// RemoveMember deactivates projectID's membership in groupID. The row is
// kept for history. Removing a non-member is a no-op.
func (s *Service) RemoveMember(ctx context.Context, groupID, projectID primitive.ObjectID) error {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return notFound(err)
	}

	unlock := s.memberLocks.Lock(memberLockKey(projectID, group.GroupSetID))
	defer unlock()

	changed, err := s.memberships.Deactivate(ctx, groupID, projectID)
	if err != nil {
		return err
	}
	if changed {
		s.audit.MemberRemoved(ctx, group.UnitID, groupID, projectID, actorFrom(ctx))
	}
	return nil
}

// CurrentMembers returns the projects with an active membership in groupID.
func (s *Service) CurrentMembers(ctx context.Context, groupID primitive.ObjectID) ([]models.Project, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, notFound(err)
	}
	ids, err := s.memberships.ActiveProjectIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.projects.ListByIDs(ctx, ids)
}

// PastMembers returns the projects that were in groupID and are not now.
func (s *Service) PastMembers(ctx context.Context, groupID primitive.ObjectID) ([]models.Project, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, notFound(err)
	}
	ids, err := s.memberships.InactiveProjectIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.projects.ListByIDs(ctx, ids)
}

// HasUser reports whether userID is the student of a current member of groupID.
func (s *Service) HasUser(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	ids, err := s.memberships.ActiveProjectIDs(ctx, groupID)
	if err != nil {
		return false, err
	}
	return s.projects.AnyOwnedBy(ctx, ids, userID)
}

// GroupFor returns projectID's active group in setID. ok is false when the
// project is in no group of the set.
func (s *Service) GroupFor(ctx context.Context, projectID, setID primitive.ObjectID) (g models.Group, ok bool, err error) {
	m, ok, err := s.memberships.ActiveInSet(ctx, projectID, setID)
	if err != nil || !ok {
		return models.Group{}, false, err
	}
	g, err = s.groups.GetByID(ctx, m.GroupID)
	if err != nil {
		return models.Group{}, false, err
	}
	return g, true, nil
}
