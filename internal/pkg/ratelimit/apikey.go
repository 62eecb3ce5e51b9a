package ratelimit

import (
	"sync"
	"time"
)

// APIKeyConfig holds the failed-attempt ceiling for shared API key auth
type APIKeyConfig struct {
	MaxFailures int
	Window      time.Duration
	Lockout     time.Duration
}

// DefaultAPIKeyConfig returns the production ceilings
func DefaultAPIKeyConfig() APIKeyConfig {
	return APIKeyConfig{
		MaxFailures: 2,
		Window:      time.Minute,
		Lockout:     10 * time.Minute,
	}
}

// APIKeyLimiter locks API key authentication globally after repeated failures.
// A failure that arrives while MaxFailures earlier failures are still inside
// the window starts the lockout. Any success clears the failure history.
type APIKeyLimiter struct {
	cfg      APIKeyConfig
	failures *Counter

	mu    sync.Mutex
	until time.Time
}

// NewAPIKeyLimiter creates an API key limiter
func NewAPIKeyLimiter(cfg APIKeyConfig) *APIKeyLimiter {
	return &APIKeyLimiter{cfg: cfg, failures: NewCounter()}
}

// Check rejects while the lockout is active
func (l *APIKeyLimiter) Check(now time.Time) *Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Before(l.until) {
		return reject(PolicyAPIKey, ReasonAPIKeyLocked, l.until.Sub(now))
	}
	return nil
}

// Fail records a mismatching key
func (l *APIKeyLimiter) Fail(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.failures.CountWithin(globalKey, l.cfg.Window, now) >= l.cfg.MaxFailures {
		l.until = now.Add(l.cfg.Lockout)
		l.failures.Reset(globalKey)
		lockoutsTotal.WithLabelValues(string(PolicyAPIKey), "global").Inc()
		return
	}
	l.failures.Record(globalKey, now)
}

// Succeed clears the failure history
func (l *APIKeyLimiter) Succeed() {
	l.failures.Reset(globalKey)
}
