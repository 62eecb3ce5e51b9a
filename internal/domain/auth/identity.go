package auth

import (
	"context"

	"github.com/landesnetz/landesnetz-api/internal/domain/account"
	"github.com/landesnetz/landesnetz-api/internal/pkg/bundesland"
)

// Kind is the resolved caller category
type Kind string

const (
	KindAnonymous Kind = "anonymous"
	KindUser      Kind = "user"
	KindAdmin     Kind = "admin"
	KindOrganizer Kind = "organizer"
	KindAPIKey    Kind = "apikey"
)

// Identity is who a request acts as
type Identity struct {
	Kind       Kind   `json:"role"`
	Username   string `json:"username,omitempty"`
	Bundesland string `json:"bundesland,omitempty"`
	Locked     bool   `json:"locked"`
}

// Anonymous is the identity of a request without valid credentials
var Anonymous = Identity{Kind: KindAnonymous}

func identityFromAccount(a *account.Account) Identity {
	kind := KindUser
	switch a.Role {
	case account.RoleAdmin:
		kind = KindAdmin
	case account.RoleOrganizer:
		kind = KindOrganizer
	}
	return Identity{
		Kind:       kind,
		Username:   a.Username,
		Bundesland: a.Bundesland,
		Locked:     a.Locked,
	}
}

// Authenticated reports whether any credential resolved
func (i Identity) Authenticated() bool {
	return i.Kind != KindAnonymous && i.Kind != ""
}

func (i Identity) IsAdmin() bool     { return i.Kind == KindAdmin }
func (i Identity) IsOrganizer() bool { return i.Kind == KindOrganizer }
func (i Identity) IsAPIKey() bool    { return i.Kind == KindAPIKey }

// Staff reports whether the identity is exempt from the chat lock
func (i Identity) Staff() bool {
	return i.IsAdmin() || i.IsOrganizer()
}

// Rank is the label stored with chat messages
func (i Identity) Rank() string {
	switch i.Kind {
	case KindAdmin:
		return "Admin"
	case KindOrganizer:
		return "Organisator (" + bundesland.Name(i.Bundesland) + ")"
	default:
		return ""
	}
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity stores id in ctx
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the identity stored by Middleware, or Anonymous
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityKey).(Identity); ok {
		return id
	}
	return Anonymous
}
