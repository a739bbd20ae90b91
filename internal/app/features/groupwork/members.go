// internal/app/features/groupwork/members.go
package groupwork

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/groupwork/internal/app/features/errors"
	gw "github.com/dalemusser/groupwork/internal/app/groupwork"
	"github.com/dalemusser/groupwork/internal/app/system/authz"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/dalemusser/groupwork/internal/domain/grouperr"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type memberItem struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
}

type membersResponse struct {
	GroupID string       `json:"group_id"`
	Members []memberItem `json:"members"`
}

type addMemberRequest struct {
	ProjectID string `json:"project_id"`
}

// loadGroup parses the {id} URL parameter and loads the group, replying
// on failure. ok is false when a reply has been written.
func (h *Handler) loadGroup(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Group, bool) {
	gid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.BadRequest(w, "Invalid group ID.")
		return models.Group{}, false
	}
	g, err := h.Groups.GetByID(ctx, gid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Domain(w, r, "", grouperr.ErrNotFound)
		return models.Group{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading group", err)
		return models.Group{}, false
	}
	return g, true
}

// requireStaff replies 403 unless the current user is staff of unitID.
func (h *Handler) requireStaff(ctx context.Context, w http.ResponseWriter, r *http.Request, unitID primitive.ObjectID) (primitive.ObjectID, bool) {
	uid, _ := authz.ActorID(r)
	staff, err := h.Policy.IsStaff(ctx, unitID, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error checking unit role", err)
		return uid, false
	}
	if !staff {
		uierrors.Forbidden(w, "Only unit staff can manage group membership.")
		return uid, false
	}
	return uid, true
}

// canViewGroup reports whether the current user is staff of the group's
// unit or one of its current members.
func (h *Handler) canViewGroup(ctx context.Context, r *http.Request, g models.Group) (bool, error) {
	uid, _ := authz.ActorID(r)
	staff, err := h.Policy.IsStaff(ctx, g.UnitID, uid)
	if err != nil || staff {
		return staff, err
	}
	return h.Service.HasUser(ctx, g.ID, uid)
}

func (h *Handler) serveMembers(w http.ResponseWriter, r *http.Request, list func(context.Context, primitive.ObjectID) ([]models.Project, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r)
	if !ok {
		return
	}
	allowed, err := h.canViewGroup(ctx, r, g)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error checking group access", err)
		return
	}
	if !allowed {
		uierrors.Forbidden(w, "You don't have access to this group.")
		return
	}

	projects, err := list(ctx, g.ID)
	if err != nil {
		h.ErrLog.Domain(w, r, "list group members", err)
		return
	}
	resp := membersResponse{GroupID: g.ID.Hex(), Members: make([]memberItem, 0, len(projects))}
	for _, p := range projects {
		resp.Members = append(resp.Members, memberItem{ProjectID: p.ID.Hex(), UserID: p.UserID.Hex()})
	}
	uierrors.WriteJSON(w, http.StatusOK, resp)
}

// ServeCurrentMembers handles GET /groups/{id}/members.
func (h *Handler) ServeCurrentMembers(w http.ResponseWriter, r *http.Request) {
	h.serveMembers(w, r, h.Service.CurrentMembers)
}

// ServePastMembers handles GET /groups/{id}/members/past.
func (h *Handler) ServePastMembers(w http.ResponseWriter, r *http.Request) {
	h.serveMembers(w, r, h.Service.PastMembers)
}

// HandleAddMember handles POST /groups/{id}/members (staff only).
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	pid, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		uierrors.BadRequest(w, "Invalid project ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r)
	if !ok {
		return
	}
	uid, ok := h.requireStaff(ctx, w, r, g.UnitID)
	if !ok {
		return
	}

	err = h.Service.AddMember(gw.WithActor(ctx, uid), g.ID, pid)
	if errors.Is(err, gw.ErrUnitMismatch) {
		uierrors.Write(w, http.StatusUnprocessableEntity, uierrors.CodeConflict, "Project belongs to another unit.")
		return
	}
	if err != nil {
		h.ErrLog.Domain(w, r, "add group member", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRemoveMember handles DELETE /groups/{id}/members/{projectID} (staff only).
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	pid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		uierrors.BadRequest(w, "Invalid project ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r)
	if !ok {
		return
	}
	uid, ok := h.requireStaff(ctx, w, r, g.UnitID)
	if !ok {
		return
	}

	if err := h.Service.RemoveMember(gw.WithActor(ctx, uid), g.ID, pid); err != nil {
		h.ErrLog.Domain(w, r, "remove group member", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
