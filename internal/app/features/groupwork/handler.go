// internal/app/features/groupwork/handler.go
package groupwork

import (
	uierrors "github.com/dalemusser/groupwork/internal/app/features/errors"
	gw "github.com/dalemusser/groupwork/internal/app/groupwork"
	"github.com/dalemusser/groupwork/internal/app/policy/unitpolicy"
	groupstore "github.com/dalemusser/groupwork/internal/app/store/groups"
	groupsetstore "github.com/dalemusser/groupwork/internal/app/store/groupsets"
	projectstore "github.com/dalemusser/groupwork/internal/app/store/projects"
	taskstore "github.com/dalemusser/groupwork/internal/app/store/tasks"
	unitstore "github.com/dalemusser/groupwork/internal/app/store/units"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the group work endpoints.
// Decisions about membership, submissions and status changes belong to the
// service; the handlers decode requests, check who is asking and encode
// results.
type Handler struct {
	Service   *gw.Service
	Policy    *unitpolicy.Policy
	Units     *unitstore.Store
	GroupSets *groupsetstore.Store
	Groups    *groupstore.Store
	Projects  *projectstore.Store
	Tasks     *taskstore.Store
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, svc *gw.Service, policy *unitpolicy.Policy, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Service:   svc,
		Policy:    policy,
		Units:     unitstore.New(db),
		GroupSets: groupsetstore.New(db),
		Groups:    groupstore.New(db),
		Projects:  projectstore.New(db),
		Tasks:     taskstore.New(db),
		ErrLog:    errLog,
		Log:       logger,
	}
}
