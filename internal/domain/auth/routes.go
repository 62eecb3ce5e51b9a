package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register mounts the auth endpoints on the /api router. accountLimit
// guards signup and login.
func (h *Handler) Register(r chi.Router, accountLimit func(http.Handler) http.Handler) {
	r.With(accountLimit).Post("/signup", h.Signup)
	r.With(accountLimit).Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.With(RequireAuthenticated).Get("/me", h.Me)
}
