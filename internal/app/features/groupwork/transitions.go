// internal/app/features/groupwork/transitions.go
package groupwork

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/groupwork/internal/app/features/errors"
	"github.com/dalemusser/groupwork/internal/app/system/authz"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/dalemusser/groupwork/internal/domain/grouperr"
	"github.com/dalemusser/groupwork/internal/domain/taskstatus"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type transitionRequest struct {
	Trigger string `json:"trigger"`
}

// HandleTriggerTransition handles POST /tasks/{id}/transitions.
//
//	{ "trigger":"rtm" }
//
// Replies with the invoking task and the groupmates' tasks that moved or
// were skipped.
func (h *Handler) HandleTriggerTransition(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.BadRequest(w, "Invalid task ID.")
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	trigger, ok := taskstatus.ParseTrigger(req.Trigger)
	if !ok {
		h.ErrLog.Domain(w, r, "", grouperr.With(grouperr.ErrInvalidTransition, map[string]string{"trigger": req.Trigger}))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	uid, _ := authz.ActorID(r)
	res, err := h.Service.TriggerTransition(ctx, taskID, trigger, uid)
	if err != nil {
		h.ErrLog.Domain(w, r, "trigger task transition", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, res)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return grouperr.ErrNotFound
	}
	return err
}
