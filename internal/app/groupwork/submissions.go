// internal/app/groupwork/submissions.go
package groupwork

import (
	"context"
	"errors"
	"sync/atomic"

	submissionstore "github.com/dalemusser/groupwork/internal/app/store/groupsubmissions"
	"github.com/dalemusser/groupwork/internal/app/system/htmlsanitize"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/dalemusser/groupwork/internal/app/system/txn"
	"github.com/dalemusser/groupwork/internal/domain/contribution"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/groupwork/internal/domain/taskstatus"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateSubmission records groupID's shared submission for the definition
// of taskID. The declared contributions are validated first; nothing is
// written when they fail.
//
// A group has at most one submission per task definition. When one exists
// it is returned unchanged and the contributions of this call are ignored.
// Otherwise the submission is created, every declared member's task is
// linked to it with its share, and the submit trigger is applied across the
// group, all in one transaction.
//
// The bool reports whether this call made the submission. Concurrent calls
// for the same group and definition share one attempt and exactly one of
// them sees true.
func (s *Service) CreateSubmission(ctx context.Context, groupID, taskID primitive.ObjectID, message string, contributions []contribution.Declaration) (models.GroupSubmission, bool, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return models.GroupSubmission{}, false, notFound(err)
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.GroupSubmission{}, false, notFound(err)
	}
	def, err := s.taskdefs.GetByID(ctx, task.TaskDefinitionID)
	if err != nil {
		return models.GroupSubmission{}, false, notFound(err)
	}

	in, err := s.contributionInput(ctx, group, task, def, contributions)
	if err != nil {
		return models.GroupSubmission{}, false, err
	}
	if err := contribution.ValidateWithTolerance(in, s.Tolerance); err != nil {
		return models.GroupSubmission{}, false, err
	}

	key := group.ID.Hex() + ":" + def.ID.Hex()
	v, err, _ := s.submits.Do(key, func() (interface{}, error) {
		// Joiners wait on this attempt, so it must outlive the caller that
		// started it. It runs with that caller's values, actor included.
		fctx, cancel := detach(ctx)
		defer cancel()
		gs, created, err := s.createOnce(fctx, group, def, task, message, contributions)
		if err != nil {
			return nil, err
		}
		return &submitFlight{gs: gs, created: created}, nil
	})
	if err != nil {
		return models.GroupSubmission{}, false, err
	}
	f := v.(*submitFlight)
	return f.gs, f.claim(), nil
}

// submitFlight is the outcome shared by every caller of one attempt.
type submitFlight struct {
	gs      models.GroupSubmission
	created bool
	claimed atomic.Bool
}

// claim reports created to the first caller that asks and false after.
func (f *submitFlight) claim() bool {
	return f.created && f.claimed.CompareAndSwap(false, true)
}

// detach returns a context that keeps ctx's values but not its
// cancellation, bounded by the long write timeout.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeouts.Long())
}

// contributionInput gathers the facts the validator needs.
func (s *Service) contributionInput(ctx context.Context, group models.Group, task models.Task, def models.TaskDefinition, decls []contribution.Declaration) (contribution.Input, error) {
	in := contribution.Input{GroupID: group.ID, Declarations: decls}
	if !def.IsGroupTask() {
		return in, nil
	}
	in.TaskGroupSetID = def.GroupSetID

	m, ok, err := s.memberships.ActiveInSet(ctx, task.ProjectID, *def.GroupSetID)
	if err != nil {
		return contribution.Input{}, err
	}
	if ok {
		gid := m.GroupID
		in.TaskGroupID = &gid
	}

	in.Members, err = s.memberships.ActiveProjectIDs(ctx, group.ID)
	if err != nil {
		return contribution.Input{}, err
	}
	return in, nil
}

func (s *Service) createOnce(ctx context.Context, group models.Group, def models.TaskDefinition, task models.Task, message string, decls []contribution.Declaration) (models.GroupSubmission, bool, error) {
	existing, ok, err := s.submissions.Find(ctx, group.ID, def.ID)
	if err != nil {
		return models.GroupSubmission{}, false, err
	}
	if ok {
		return existing, false, nil
	}

	var (
		gs      models.GroupSubmission
		created bool
		res     TransitionResult
	)
	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		created = false
		existing, ok, err := s.submissions.Find(ctx, group.ID, def.ID)
		if err != nil {
			return err
		}
		if ok {
			gs = existing
			return nil
		}

		gs, err = s.submissions.Insert(ctx, models.GroupSubmission{
			GroupID:              group.ID,
			TaskDefinitionID:     def.ID,
			Notes:                htmlsanitize.PlainText(message),
			SubmittedByProjectID: task.ProjectID,
		})
		if err != nil {
			return err
		}

		for _, d := range decls {
			t, err := s.tasks.Ensure(ctx, models.Project{ID: d.ProjectID, UnitID: def.UnitID}, def)
			if err != nil {
				return err
			}
			if err := s.tasks.LinkContribution(ctx, t.ID, d.Pct, gs.ID); err != nil {
				return notFound(err)
			}
		}

		res, err = s.fanOut(ctx, task.ID, taskstatus.TriggerSubmit, false)
		if err != nil {
			return err
		}
		created = true
		return nil
	})
	if errors.Is(err, submissionstore.ErrDuplicateSubmission) {
		// Lost the insert race to another process.
		winner, ok, findErr := s.submissions.Find(ctx, group.ID, def.ID)
		if findErr == nil && ok {
			return winner, false, nil
		}
	}
	if err != nil {
		s.log.Error("create group submission failed",
			zap.String("group_id", group.ID.Hex()),
			zap.String("task_definition_id", def.ID.Hex()),
			zap.Error(err))
		return models.GroupSubmission{}, false, err
	}

	if created {
		opID := uuid.NewString()
		s.audit.SubmissionCreated(ctx, opID, def.UnitID, group.ID, gs.ID, def.ID, task.ProjectID, len(decls))
		s.auditFanOut(ctx, opID, res, taskstatus.TriggerSubmit, actorFrom(ctx))
	}
	return gs, created, nil
}
