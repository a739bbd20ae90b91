// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/dalemusser/groupwork/internal/app/features/errors"
	"github.com/dalemusser/groupwork/internal/app/store/audit"
	"github.com/dalemusser/groupwork/internal/app/system/authz"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const pageSize = 50

type listResponse struct {
	Events     []audit.Event `json:"events"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

// ServeList handles GET /audit.
//
// Query parameters: unit_id, group_id, task_id, operation_id, category,
// event_type, start_date and end_date (YYYY-MM-DD), page. Events are
// returned newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.ActorID(r)
	if !ok {
		uierrors.Unauthorized(w, "Sign in required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	q := r.URL.Query()
	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		Category:    strings.TrimSpace(q.Get("category")),
		EventType:   strings.TrimSpace(q.Get("event_type")),
		OperationID: strings.TrimSpace(q.Get("operation_id")),
		Limit:       pageSize,
		Offset:      int64((page - 1) * pageSize),
	}

	for _, p := range []struct {
		name string
		dst  **primitive.ObjectID
	}{
		{"unit_id", &filter.UnitID},
		{"group_id", &filter.GroupID},
		{"task_id", &filter.TaskID},
	} {
		v := strings.TrimSpace(q.Get(p.name))
		if v == "" {
			continue
		}
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			uierrors.BadRequest(w, "Invalid "+p.name+".")
			return
		}
		*p.dst = &id
	}

	if v := strings.TrimSpace(q.Get("start_date")); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.StartTime = &t
		}
	}
	if v := strings.TrimSpace(q.Get("end_date")); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			// End of day
			endOfDay := t.Add(24*time.Hour - time.Second)
			filter.EndTime = &endOfDay
		}
	}

	// Authorization: non-admins are limited to a unit they are staff of.
	admin, err := h.Policy.IsAdmin(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error checking admin", err)
		return
	}
	if !admin {
		if filter.UnitID == nil {
			uierrors.Forbidden(w, "unit_id is required.")
			return
		}
		staff, err := h.Policy.IsStaff(ctx, *filter.UnitID, userID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "database error checking unit role", err)
			return
		}
		if !staff {
			uierrors.Forbidden(w, "You don't have access to this unit's audit log.")
			return
		}
	}

	events, err := h.Audit.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to query audit events", err)
		return
	}
	total, err := h.Audit.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to count audit events", err)
		return
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	if events == nil {
		events = []audit.Event{}
	}
	uierrors.WriteJSON(w, http.StatusOK, listResponse{
		Events:     events,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	})
}
