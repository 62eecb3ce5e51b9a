package auth

import (
	"net/http"

	"github.com/landesnetz/landesnetz-api/internal/pkg/errorhandler"
	"github.com/landesnetz/landesnetz-api/internal/pkg/response"
)

// Middleware resolves the session cookies and stores the identity in the
// request context.
func Middleware(res *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := res.Resolve(r)
			if err != nil {
				errorhandler.HandleError(r.Context(), w, "failed to resolve session", err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAuthenticated rejects anonymous and locked identities
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := FromContext(r.Context())
		if !id.Authenticated() {
			response.Unauthorized(w, MsgNotAuthenticated)
			return
		}
		if id.Locked {
			response.Forbidden(w, MsgAccountLocked)
			return
		}
		next.ServeHTTP(w, r)
	})
}
