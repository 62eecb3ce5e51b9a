package auth

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/landesnetz/landesnetz-api/internal/domain/account"
	"github.com/landesnetz/landesnetz-api/internal/pkg/ratelimit"
)

// Cookie names
const (
	CookieUsername    = "username"
	CookiePassword    = "password"
	CookieOrgUsername = "orgUsername"
	CookieOrgPassword = "orgPassword"
)

const maxKeyBodyBytes = 1 << 20

// Resolver turns request credentials into an Identity
type Resolver struct {
	lookup  *account.Lookup
	apiKey  string
	limiter *ratelimit.APIKeyLimiter
	now     func() time.Time
}

// NewResolver creates a resolver. An empty apiKey disables key access.
func NewResolver(lookup *account.Lookup, apiKey string, limiter *ratelimit.APIKeyLimiter, now func() time.Time) *Resolver {
	return &Resolver{lookup: lookup, apiKey: apiKey, limiter: limiter, now: now}
}

// Resolve checks the session cookies: the username/password pair against
// the user, admin and organizer stores in that order, then the organizer
// pair against the organizer store. The error is non-nil only when a store
// cannot be read.
func (res *Resolver) Resolve(r *http.Request) (Identity, error) {
	ctx := r.Context()

	if name, pass, ok := cookiePair(r, CookieUsername, CookiePassword); ok {
		a, err := res.lookup.Authenticate(ctx, name, pass, account.RoleUser, account.RoleAdmin, account.RoleOrganizer)
		if err == nil {
			return identityFromAccount(a), nil
		}
		if !errors.Is(err, account.ErrNotFound) {
			return Anonymous, err
		}
	}

	if name, pass, ok := cookiePair(r, CookieOrgUsername, CookieOrgPassword); ok {
		a, err := res.lookup.Authenticate(ctx, name, pass, account.RoleOrganizer)
		if err == nil {
			return identityFromAccount(a), nil
		}
		if !errors.Is(err, account.ErrNotFound) {
			return Anonymous, err
		}
	}

	return Anonymous, nil
}

// ResolveAdmin is Resolve followed by the shared API key when no cookie
// resolves. A supplied key that does not match counts as a failure for the
// API key limiter.
func (res *Resolver) ResolveAdmin(r *http.Request) (Identity, error) {
	id, err := res.Resolve(r)
	if err != nil || id.Authenticated() {
		return id, err
	}

	if apiKeyFrom(r) == "" {
		return Anonymous, nil
	}
	if err := res.VerifyAPIKey(r); err != nil {
		return Anonymous, err
	}
	return Identity{Kind: KindAPIKey}, nil
}

// VerifyAPIKey checks the key carried by r against the configured key.
// It returns a *ratelimit.Decision while key access is locked.
func (res *Resolver) VerifyAPIKey(r *http.Request) error {
	now := res.now()
	if d := res.limiter.Check(now); d != nil {
		return d
	}

	key := apiKeyFrom(r)
	if res.apiKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(res.apiKey)) != 1 {
		res.limiter.Fail(now)
		return ErrInvalidAPIKey
	}

	res.limiter.Succeed()
	return nil
}

// apiKeyFrom reads the key from the query, a JSON body or the X-API-Key
// header. The body is restored for the handler.
func apiKeyFrom(r *http.Request) string {
	if key := r.URL.Query().Get("apiKey"); key != "" {
		return key
	}

	if r.Body != nil && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxKeyBodyBytes))
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(data))
		if err == nil {
			var body struct {
				APIKey string `json:"apiKey"`
			}
			if json.Unmarshal(data, &body) == nil && body.APIKey != "" {
				return body.APIKey
			}
		}
	}

	return r.Header.Get("X-API-Key")
}

func cookiePair(r *http.Request, userCookie, passCookie string) (string, string, bool) {
	name := cookieValue(r, userCookie)
	pass := cookieValue(r, passCookie)
	if name == "" || pass == "" {
		return "", "", false
	}
	return name, pass, true
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return c.Value
	}
	return v
}
