// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/groupwork/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log under the path where this router is mounted
// (typically "/audit" from bootstrap).
//
// Admins see all events; unit staff see the events of a unit they teach
// and must name it with unit_id.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
	})

	return r
}
