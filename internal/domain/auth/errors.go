package auth

import (
	"errors"
	"net/http"

	"github.com/landesnetz/landesnetz-api/internal/middleware"
	"github.com/landesnetz/landesnetz-api/internal/pkg/errorhandler"
	"github.com/landesnetz/landesnetz-api/internal/pkg/ratelimit"
	"github.com/landesnetz/landesnetz-api/internal/pkg/response"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrAccountLocked      = errors.New("account is locked")
	ErrInvalidAPIKey      = errors.New("invalid api key")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPendingApproval    = errors.New("account awaits approval")
	ErrMissingFields      = errors.New("username and password are required")
	ErrUsernameTaken      = errors.New("username already taken")
)

// User-facing messages
const (
	MsgNotAuthenticated   = "Nicht angemeldet."
	MsgAccountLocked      = "Dein Konto ist gesperrt."
	MsgInvalidAPIKey      = "Ungültiger API-Key."
	MsgInvalidCredentials = "Benutzername oder Passwort falsch."
	MsgPendingApproval    = "Dein Konto wurde noch nicht freigeschaltet."
	MsgMissingFields      = "Benutzername und Passwort erforderlich."
	MsgUsernameTaken      = "Benutzername bereits vergeben."
)

// WriteError maps authentication failures to responses. Anything unknown
// is logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var decision *ratelimit.Decision
	switch {
	case errors.As(err, &decision):
		middleware.WriteRateLimited(w, r, decision)
	case errors.Is(err, ErrNotAuthenticated):
		response.Unauthorized(w, MsgNotAuthenticated)
	case errors.Is(err, ErrInvalidAPIKey):
		response.Unauthorized(w, MsgInvalidAPIKey)
	case errors.Is(err, ErrInvalidCredentials):
		response.Unauthorized(w, MsgInvalidCredentials)
	case errors.Is(err, ErrAccountLocked):
		response.Forbidden(w, MsgAccountLocked)
	case errors.Is(err, ErrPendingApproval):
		response.Forbidden(w, MsgPendingApproval)
	case errors.Is(err, ErrMissingFields):
		response.BadRequest(w, MsgMissingFields)
	case errors.Is(err, ErrUsernameTaken):
		response.BadRequest(w, MsgUsernameTaken)
	default:
		errorhandler.HandleError(r.Context(), w, "auth request failed", err)
	}
}
