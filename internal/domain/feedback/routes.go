package feedback

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes mounts the submission endpoints on the /api router
func (h *Handler) PublicRoutes(r chi.Router, newsletterLimit, bugReportLimit func(http.Handler) http.Handler) {
	r.With(newsletterLimit).Post("/newsletter", h.Subscribe)
	r.With(bugReportLimit).Post("/bug-report", h.SubmitReport)
}

// AdminRoutes mounts the review endpoints. adminOnly must resolve and
// authorize the caller.
func (h *Handler) AdminRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(adminOnly)
		r.Get("/newsletter", h.ListSubscribers)
		r.Get("/bug-reports", h.ListReports)
		r.Patch("/bug-reports/{id}/status", h.UpdateStatus)
	})
}
