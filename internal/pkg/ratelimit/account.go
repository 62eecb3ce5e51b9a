package ratelimit

import (
	"sync"
	"time"
)

// AccountConfig holds the ceilings of the account limiter (signup, login)
type AccountConfig struct {
	GlobalLimit     int
	GlobalWindow    time.Duration
	GlobalLockout   time.Duration
	PerMinuteLimit  int
	PerMinuteWindow time.Duration
	BurstLimit      int
	BurstWindow     time.Duration
	FirstLockout    time.Duration
	RepeatLockout   time.Duration
}

// DefaultAccountConfig returns the production ceilings
func DefaultAccountConfig() AccountConfig {
	return AccountConfig{
		GlobalLimit:     50,
		GlobalWindow:    time.Minute,
		GlobalLockout:   time.Minute,
		PerMinuteLimit:  5,
		PerMinuteWindow: time.Minute,
		BurstLimit:      20,
		BurstWindow:     5 * time.Minute,
		FirstLockout:    time.Hour,
		RepeatLockout:   24 * time.Hour,
	}
}

// AccountLimiter guards account actions with a global ceiling, a per-caller
// ceiling and an escalating per-caller lockout.
type AccountLimiter struct {
	cfg AccountConfig

	minute *Counter
	burst  *Counter

	mu          sync.Mutex
	globalUntil time.Time
	lockedUntil map[string]time.Time
	blockCounts map[string]int
}

// NewAccountLimiter creates an account limiter
func NewAccountLimiter(cfg AccountConfig) *AccountLimiter {
	return &AccountLimiter{
		cfg:         cfg,
		minute:      NewCounter(),
		burst:       NewCounter(),
		lockedUntil: make(map[string]time.Time),
		blockCounts: make(map[string]int),
	}
}

// Check records one request for key and evaluates the ceilings in order.
func (l *AccountLimiter) Check(key string, now time.Time) *Decision {
	l.minute.Record(key, now)
	l.burst.Record(key, now)

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Before(l.globalUntil) {
		return reject(PolicyAccount, ReasonEndpointLocked, l.globalUntil.Sub(now))
	}

	if until, ok := l.lockedUntil[key]; ok {
		if now.Before(until) {
			return reject(PolicyAccount, ReasonCallerLocked, until.Sub(now))
		}
		delete(l.lockedUntil, key)
	}

	global := l.minute.CountAll(l.cfg.GlobalWindow, now, func(k string) bool {
		until, ok := l.lockedUntil[k]
		return ok && now.Before(until)
	})
	if global > l.cfg.GlobalLimit {
		l.globalUntil = now.Add(l.cfg.GlobalLockout)
		lockoutsTotal.WithLabelValues(string(PolicyAccount), "global").Inc()
		return reject(PolicyAccount, ReasonEndpointLocked, l.cfg.GlobalLockout)
	}

	if l.minute.CountWithin(key, l.cfg.PerMinuteWindow, now) > l.cfg.PerMinuteLimit {
		return reject(PolicyAccount, ReasonPerMinute, l.cfg.PerMinuteWindow)
	}

	if l.burst.CountWithin(key, l.cfg.BurstWindow, now) > l.cfg.BurstLimit {
		l.blockCounts[key]++
		lockout := l.cfg.FirstLockout
		if l.blockCounts[key] > 1 {
			lockout = l.cfg.RepeatLockout
		}
		l.lockedUntil[key] = now.Add(lockout)
		lockoutsTotal.WithLabelValues(string(PolicyAccount), "caller").Inc()
		return reject(PolicyAccount, ReasonPerFiveMinutes, lockout)
	}

	return nil
}

// LockedUntil reports the active lock deadline for key, if any
func (l *AccountLimiter) LockedUntil(key string, now time.Time) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.lockedUntil[key]
	if !ok || !now.Before(until) {
		return time.Time{}, false
	}
	return until, true
}

// BlockCount returns how often key has been locked so far
func (l *AccountLimiter) BlockCount(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.blockCounts[key]
}
