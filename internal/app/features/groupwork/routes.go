// internal/app/features/groupwork/routes.go
package groupwork

import (
	"github.com/dalemusser/groupwork/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// GroupRoutes is mounted under /groups.
func GroupRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// MEMBERS
		pr.Get("/{id}/members", h.ServeCurrentMembers)
		pr.Get("/{id}/members/past", h.ServePastMembers)
		pr.Post("/{id}/members", h.HandleAddMember)
		pr.Delete("/{id}/members/{projectID}", h.HandleRemoveMember)

		// SUBMISSIONS
		pr.Post("/{id}/submissions", h.HandleCreateSubmission)
	})

	return r
}

// GroupSetRoutes is mounted under /groupsets.
func GroupSetRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/{id}/groups", h.ServeGroupSet)
	})

	return r
}

// TaskRoutes is mounted under /tasks.
func TaskRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/{id}/transitions", h.HandleTriggerTransition)
	})

	return r
}
