package admin

import "github.com/go-chi/chi/v5"

// Register mounts the admin endpoints on the /api router. Each extension
// is mounted inside /admin behind the gate.
func (h *Handler) Register(r chi.Router, extensions ...func(r chi.Router)) {
	r.Get("/export-all", h.ExportAll)

	r.Route("/admin", func(r chi.Router) {
		r.Use(Gate(h.resolver))

		r.With(RequirePermission(PermBanAccounts)).Post("/ban", h.Ban)

		r.Group(func(r chi.Router) {
			r.Use(RequirePermission(PermManageAccounts))
			r.Post("/approve", h.Approve)
			r.Post("/reject", h.Reject)
			r.Post("/promote", h.Promote)
			r.Post("/demote", h.Demote)
			r.Post("/unban", h.Unban)
			r.Get("/pending", h.ListPending)
			r.Get("/users", h.ListUsers)
		})

		r.Route("/organizers", func(r chi.Router) {
			r.Use(RequirePermission(PermManageOrganizers))
			r.Get("/", h.ListOrganizers)
			r.Post("/", h.CreateOrganizer)
			r.Delete("/", h.DeleteOrganizer)
		})

		r.With(RequirePermission(PermLockChats)).Post("/chats-lock", h.ChatsLock)
		r.With(RequirePermission(PermManageMedia)).Put("/media/{slot}", h.ReplaceMedia)
		r.With(RequirePermission(PermViewAuditLogs)).Get("/audit", h.AuditLog)

		for _, ext := range extensions {
			ext(r)
		}
	})
}

