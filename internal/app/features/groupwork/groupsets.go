// internal/app/features/groupwork/groupsets.go
package groupwork

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/groupwork/internal/app/features/errors"
	"github.com/dalemusser/groupwork/internal/app/system/authz"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type groupSetResponse struct {
	Unit     models.Unit     `json:"unit"`
	GroupSet models.GroupSet `json:"group_set"`
	Groups   []models.Group  `json:"groups"`
}

// ServeGroupSet handles GET /groupsets/{id}/groups. Unit staff and students
// enrolled in the unit may list the groups of a set.
func (h *Handler) ServeGroupSet(w http.ResponseWriter, r *http.Request) {
	setID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.BadRequest(w, "Invalid group set ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	set, err := h.GroupSets.GetByID(ctx, setID)
	if err != nil {
		h.ErrLog.Domain(w, r, "load group set", notFound(err))
		return
	}
	unit, err := h.Units.GetByID(ctx, set.UnitID)
	if err != nil {
		h.ErrLog.Domain(w, r, "load unit", notFound(err))
		return
	}

	uid, _ := authz.ActorID(r)
	allowed, err := h.Policy.IsStaff(ctx, unit.ID, uid)
	if err == nil && !allowed {
		_, err = h.Projects.GetByUnitAndUser(ctx, unit.ID, uid)
		switch {
		case err == nil:
			allowed = true
		case errors.Is(err, mongo.ErrNoDocuments):
			err = nil
		}
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error checking unit access", err)
		return
	}
	if !allowed {
		uierrors.Forbidden(w, "You are not enrolled in this unit.")
		return
	}

	groups, err := h.Groups.ListBySet(ctx, set.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing groups", err)
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}
	uierrors.WriteJSON(w, http.StatusOK, groupSetResponse{Unit: unit, GroupSet: set, Groups: groups})
}
