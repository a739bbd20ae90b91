// internal/app/groupwork/service.go
//
// Package groupwork holds the group membership ledger, the group submission
// coordinator and the task status propagator. Every multi-record mutation
// runs inside txn.Run so a fan-out is never observed half applied.
package groupwork

import (
	"context"
	"errors"

	groupstore "github.com/dalemusser/groupwork/internal/app/store/groups"
	submissionstore "github.com/dalemusser/groupwork/internal/app/store/groupsubmissions"
	membershipstore "github.com/dalemusser/groupwork/internal/app/store/memberships"
	projectstore "github.com/dalemusser/groupwork/internal/app/store/projects"
	taskdefstore "github.com/dalemusser/groupwork/internal/app/store/taskdefs"
	taskstore "github.com/dalemusser/groupwork/internal/app/store/tasks"
	"github.com/dalemusser/groupwork/internal/app/system/auditlog"
	"github.com/dalemusser/groupwork/internal/app/system/keylock"
	"github.com/dalemusser/groupwork/internal/domain/contribution"
	"github.com/dalemusser/groupwork/internal/domain/grouperr"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/groupwork/internal/domain/taskstatus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Authorizer decides whether an actor may fire a trigger on a task.
type Authorizer interface {
	CanTrigger(ctx context.Context, task models.Task, trigger taskstatus.Trigger, actorID primitive.ObjectID) (bool, error)
}

// Service is the shared dependency container for group work operations.
type Service struct {
	db    *mongo.Database
	log   *zap.Logger
	audit *auditlog.Logger
	authz Authorizer

	// Tolerance is how far, in percentage points, declared contributions
	// may stray from 100.
	Tolerance int

	groups      *groupstore.Store
	memberships *membershipstore.Store
	projects    *projectstore.Store
	taskdefs    *taskdefstore.Store
	tasks       *taskstore.Store
	submissions *submissionstore.Store

	memberLocks keylock.Locker
	submits     singleflight.Group
}

// New constructs a Service. audit may be nil.
func New(db *mongo.Database, authz Authorizer, audit *auditlog.Logger, logger *zap.Logger) *Service {
	return &Service{
		db:          db,
		log:         logger,
		audit:       audit,
		authz:       authz,
		Tolerance:   contribution.DefaultTolerance,
		groups:      groupstore.New(db),
		memberships: membershipstore.New(db),
		projects:    projectstore.New(db),
		taskdefs:    taskdefstore.New(db),
		tasks:       taskstore.New(db),
		submissions: submissionstore.New(db),
	}
}

type actorKey struct{}

// WithActor returns ctx carrying the ID of the user making the change, for
// the audit trail of membership changes.
func WithActor(ctx context.Context, userID primitive.ObjectID) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

func actorFrom(ctx context.Context) *primitive.ObjectID {
	if id, ok := ctx.Value(actorKey{}).(primitive.ObjectID); ok {
		return &id
	}
	return nil
}

// notFound maps a missing record to grouperr.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return grouperr.ErrNotFound
	}
	return err
}
