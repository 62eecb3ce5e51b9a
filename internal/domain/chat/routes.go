package chat

import (
	"github.com/go-chi/chi/v5"

	"github.com/landesnetz/landesnetz-api/internal/domain/auth"
)

// Register mounts the chat endpoints on the /api router
func (h *Handler) Register(r chi.Router) {
	r.Get("/chats-lock", h.LockStatus)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuthenticated)

		r.Get("/channels", h.ListChannels)
		r.Get("/chats/{name}", h.Messages)
		r.Post("/chats/{name}", h.Post)
		r.Delete("/chats/{name}", h.Delete)
		r.Post("/chats/{name}/image", h.PostImage)
		r.Post("/chats/{name}/pin", h.Pin)
	})
}

// RegisterWebSocket mounts the websocket endpoint on the root router. The
// session middleware must already run on r.
func (h *Handler) RegisterWebSocket(r chi.Router) {
	r.With(auth.RequireAuthenticated).Get("/ws", h.WebSocket)
}
