// internal/app/groupwork/transitions.go
package groupwork

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/groupwork/internal/app/system/txn"
	"github.com/dalemusser/groupwork/internal/domain/grouperr"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/groupwork/internal/domain/taskstatus"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// errStaleTask aborts a fan-out when a task's status changed between the
// plan and the write.
var errStaleTask = errors.New("task status changed during transition")

// TransitionResult reports what a trigger did.
type TransitionResult struct {
	// Task is the invoking task after the change.
	Task models.Task `json:"task"`
	// Siblings are the groupmates' tasks the trigger moved.
	Siblings []models.Task `json:"siblings"`
	// Skipped are tasks whose status does not accept the trigger; they
	// were left unchanged.
	Skipped []models.Task `json:"skipped"`

	changes []change
}

type change struct {
	task models.Task
	from taskstatus.Status
}

// TriggerTransition fires trigger on taskID on behalf of actorID. Group-wide
// triggers on a group task also move the matching tasks of every current
// groupmate. Either every planned update is written or none is.
func (s *Service) TriggerTransition(ctx context.Context, taskID primitive.ObjectID, trigger taskstatus.Trigger, actorID primitive.ObjectID) (TransitionResult, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return TransitionResult{}, notFound(err)
	}

	allowed, err := s.authz.CanTrigger(ctx, task, trigger, actorID)
	if err != nil {
		return TransitionResult{}, err
	}
	if !allowed {
		s.audit.TransitionRejected(ctx, task.UnitID, task.ID, &actorID, string(trigger), string(grouperr.KindNotAuthorized))
		return TransitionResult{}, grouperr.ErrNotAuthorized
	}
	if _, ok := taskstatus.Next(task.Status, trigger); !ok {
		s.audit.TransitionRejected(ctx, task.UnitID, task.ID, &actorID, string(trigger), string(grouperr.KindInvalidTransition))
		return TransitionResult{}, grouperr.ErrInvalidTransition
	}

	var res TransitionResult
	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		var err error
		res, err = s.fanOut(ctx, taskID, trigger, true)
		return err
	})
	if err != nil {
		return TransitionResult{}, err
	}

	s.auditFanOut(ctx, uuid.NewString(), res, trigger, &actorID)
	return res, nil
}

// fanOut applies trigger to the task and, when group-wide, to its
// groupmates' tasks. It does not check authorization and never re-enters
// itself for the siblings. With strict set, an invoking task that cannot
// take the trigger fails with ErrInvalidTransition; otherwise it is skipped
// like a sibling.
func (s *Service) fanOut(ctx context.Context, taskID primitive.ObjectID, trigger taskstatus.Trigger, strict bool) (TransitionResult, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return TransitionResult{}, notFound(err)
	}
	if _, ok := taskstatus.Next(task.Status, trigger); !ok && strict {
		return TransitionResult{}, grouperr.ErrInvalidTransition
	}

	siblings, err := s.siblingTasks(ctx, task, trigger)
	if err != nil {
		return TransitionResult{}, err
	}

	// Plan every move before the first write.
	res := TransitionResult{Task: task}
	targets := append([]models.Task{task}, siblings...)
	for i, t := range targets {
		if _, ok := taskstatus.Next(t.Status, trigger); !ok {
			if i > 0 || !strict {
				res.Skipped = append(res.Skipped, t)
			}
			continue
		}
		res.changes = append(res.changes, change{task: t, from: t.Status})
	}

	now := time.Now().UTC()
	for i := range res.changes {
		c := &res.changes[i]
		to, _ := taskstatus.Next(c.from, trigger)
		ok, err := s.tasks.ApplyStatus(ctx, c.task.ID, c.from, to, now)
		if err != nil {
			return TransitionResult{}, err
		}
		if !ok {
			s.log.Warn("task changed during transition",
				zap.String("task_id", c.task.ID.Hex()),
				zap.String("trigger", string(trigger)))
			return TransitionResult{}, errStaleTask
		}
		stamp(&c.task, c.from, to, now)

		if c.task.ID == task.ID {
			res.Task = c.task
		} else {
			res.Siblings = append(res.Siblings, c.task)
		}
	}
	return res, nil
}

// siblingTasks returns the matching tasks of task's current groupmates, or
// nil when trigger stays with the member or the task has no current group.
// Groupmates without a task row yet get one.
func (s *Service) siblingTasks(ctx context.Context, task models.Task, trigger taskstatus.Trigger) ([]models.Task, error) {
	if !trigger.GroupWide() {
		return nil, nil
	}
	def, err := s.taskdefs.GetByID(ctx, task.TaskDefinitionID)
	if err != nil {
		return nil, notFound(err)
	}
	if !def.IsGroupTask() {
		return nil, nil
	}
	m, ok, err := s.memberships.ActiveInSet(ctx, task.ProjectID, *def.GroupSetID)
	if err != nil || !ok {
		return nil, err
	}
	ids, err := s.memberships.ActiveProjectIDs(ctx, m.GroupID)
	if err != nil {
		return nil, err
	}

	others := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id != task.ProjectID {
			others = append(others, id)
		}
	}
	existing, err := s.tasks.ListByProjectsAndDef(ctx, others, def.ID)
	if err != nil {
		return nil, err
	}

	byProject := make(map[primitive.ObjectID]models.Task, len(existing))
	for _, t := range existing {
		byProject[t.ProjectID] = t
	}
	out := make([]models.Task, 0, len(others))
	for _, pid := range others {
		t, ok := byProject[pid]
		if !ok {
			t, err = s.tasks.Ensure(ctx, models.Project{ID: pid, UnitID: def.UnitID}, def)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, t)
	}
	return out, nil
}

// stamp mirrors taskstore.ApplyStatus on the in-memory copy.
func stamp(t *models.Task, from, to taskstatus.Status, at time.Time) {
	t.Status = to
	t.UpdatedAt = at
	switch to {
	case taskstatus.ReadyToMark:
		t.SubmissionDate = &at
	case taskstatus.Complete:
		t.CompletionDate = &at
	}
	if from == taskstatus.Complete && to != taskstatus.Complete {
		t.CompletionDate = nil
	}
}

// auditFanOut records one event per moved task and per skipped sibling,
// all sharing operationID. It runs after commit so a retried transaction
// does not log twice.
func (s *Service) auditFanOut(ctx context.Context, operationID string, res TransitionResult, trigger taskstatus.Trigger, actorID *primitive.ObjectID) {
	for _, c := range res.changes {
		s.audit.TaskTransitioned(ctx, operationID, c.task.UnitID, c.task.ID, c.task.ProjectID, actorID,
			string(trigger), string(c.from), string(c.task.Status))
	}
	for _, t := range res.Skipped {
		s.audit.TransitionSkipped(ctx, operationID, t.UnitID, t.ID, t.ProjectID, string(trigger), string(t.Status))
	}
}
