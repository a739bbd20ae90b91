// internal/app/features/groupwork/submissions.go
package groupwork

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/groupwork/internal/app/features/errors"
	gw "github.com/dalemusser/groupwork/internal/app/groupwork"
	"github.com/dalemusser/groupwork/internal/app/system/authz"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/dalemusser/groupwork/internal/domain/contribution"
	"github.com/dalemusser/groupwork/internal/domain/grouperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contributionItem struct {
	ProjectID string `json:"project_id"`
	Pct       int    `json:"pct"`
}

type createSubmissionRequest struct {
	TaskID        string             `json:"task_id"`
	Message       string             `json:"message"`
	Contributions []contributionItem `json:"contributions"`
}

// HandleCreateSubmission handles POST /groups/{id}/submissions.
//
//	{ "task_id":"…", "message":"…", "contributions":[{"project_id":"…","pct":50}] }
//
// The caller must own the task or be staff of its unit. Replies 201 with
// the submission; a repeat for the same group and task definition replies
// 200 with the existing one.
func (h *Handler) HandleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	taskID, err := primitive.ObjectIDFromHex(req.TaskID)
	if err != nil {
		uierrors.BadRequest(w, "Invalid task ID.")
		return
	}
	decls := make([]contribution.Declaration, 0, len(req.Contributions))
	for _, c := range req.Contributions {
		pid, err := primitive.ObjectIDFromHex(c.ProjectID)
		if err != nil {
			uierrors.BadRequest(w, "Invalid project ID in contributions.")
			return
		}
		decls = append(decls, contribution.Declaration{ProjectID: pid, Pct: c.Pct})
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r)
	if !ok {
		return
	}
	task, err := h.Tasks.GetByID(ctx, taskID)
	if err != nil {
		h.ErrLog.Domain(w, r, "load task", notFound(err))
		return
	}

	uid, _ := authz.ActorID(r)
	allowed, err := h.Policy.OwnsTask(ctx, task, uid)
	if err == nil && !allowed {
		allowed, err = h.Policy.IsStaff(ctx, task.UnitID, uid)
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error checking task access", err)
		return
	}
	if !allowed {
		h.ErrLog.Domain(w, r, "", grouperr.ErrNotAuthorized)
		return
	}

	gs, created, err := h.Service.CreateSubmission(gw.WithActor(ctx, uid), g.ID, task.ID, req.Message, decls)
	if err != nil {
		h.ErrLog.Domain(w, r, "create group submission", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	uierrors.WriteJSON(w, status, gs)
}
