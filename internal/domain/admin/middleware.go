package admin

import (
	"net/http"

	"github.com/landesnetz/landesnetz-api/internal/domain/auth"
	"github.com/landesnetz/landesnetz-api/internal/pkg/response"
)

// Gate resolves the caller from the session cookies or, when none
// resolves, from the shared API key.
func Gate(res *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := res.ResolveAdmin(r)
			if err != nil {
				auth.WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// RequirePermission creates middleware that checks for a specific permission
func RequirePermission(perm Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := auth.FromContext(r.Context())
			if !id.Authenticated() {
				response.Unauthorized(w, auth.MsgNotAuthenticated)
				return
			}
			if id.Locked {
				response.Forbidden(w, auth.MsgAccountLocked)
				return
			}
			if !HasPermission(id.Kind, perm) {
				response.Forbidden(w, MsgPermissionDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
