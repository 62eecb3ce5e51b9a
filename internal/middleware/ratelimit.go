package middleware

import (
	"net/http"
	"time"

	"github.com/landesnetz/landesnetz-api/internal/pkg/logger"
	"github.com/landesnetz/landesnetz-api/internal/pkg/ratelimit"
	"github.com/landesnetz/landesnetz-api/internal/pkg/response"
)

// KeyedLimiter is a limiter checked per caller
type KeyedLimiter interface {
	Check(key string, now time.Time) *ratelimit.Decision
}

// RateLimit admits a request only when l accepts the caller's address
func RateLimit(l KeyedLimiter, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d := l.Check(ClientIP(r), now()); d != nil {
				WriteRateLimited(w, r, d)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CommitLimiter is a keyed limiter whose slot is taken only by Commit
type CommitLimiter interface {
	KeyedLimiter
	Commit(key string, now time.Time)
}

// RateLimitOnSuccess admits a request when l accepts the caller's address
// and commits the caller's slot only when the handler answers with 2xx.
func RateLimitOnSuccess(l CommitLimiter, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientIP(r)
			if d := l.Check(key, now()); d != nil {
				WriteRateLimited(w, r, d)
				return
			}

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			if wrapped.statusCode >= 200 && wrapped.statusCode < 300 {
				l.Commit(key, now())
			}
		})
	}
}

// WriteRateLimited logs the rejection and writes the 429 response
func WriteRateLimited(w http.ResponseWriter, r *http.Request, d *ratelimit.Decision) {
	logger.FromContext(r.Context()).Warn().
		Str("policy", string(d.Policy)).
		Str("reason", string(d.Reason)).
		Str("ip", ClientIP(r)).
		Dur("retry_after", d.RetryAfter).
		Msg("Rate limit exceeded")

	response.TooManyRequests(w, string(d.Reason), d.Message(), d.RetryAfter)
}
