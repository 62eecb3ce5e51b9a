package ratelimit

import (
	"sync"
	"time"
)

// NewsletterConfig holds the newsletter ceilings
type NewsletterConfig struct {
	GlobalLimit   int
	GlobalWindow  time.Duration
	GlobalLockout time.Duration
	Interval      time.Duration
}

// DefaultNewsletterConfig returns the production ceilings
func DefaultNewsletterConfig() NewsletterConfig {
	return NewsletterConfig{
		GlobalLimit:   5,
		GlobalWindow:  time.Minute,
		GlobalLockout: 10 * time.Minute,
		Interval:      time.Hour,
	}
}

const globalKey = "*"

// NewsletterLimiter allows one signup per caller per interval and locks the
// endpoint when too many signups arrive in total.
type NewsletterLimiter struct {
	cfg    NewsletterConfig
	global *Counter
	last   *lastSent

	mu          sync.Mutex
	globalUntil time.Time
}

// NewNewsletterLimiter creates a newsletter limiter
func NewNewsletterLimiter(cfg NewsletterConfig) *NewsletterLimiter {
	return &NewsletterLimiter{
		cfg:    cfg,
		global: NewCounter(),
		last:   newLastSent(),
	}
}

// Check records one signup attempt for key. The per-caller interval only
// starts with Commit.
func (l *NewsletterLimiter) Check(key string, now time.Time) *Decision {
	l.global.Record(globalKey, now)

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Before(l.globalUntil) {
		return reject(PolicyNewsletter, ReasonEndpointLocked, l.globalUntil.Sub(now))
	}

	if l.global.CountWithin(globalKey, l.cfg.GlobalWindow, now) > l.cfg.GlobalLimit {
		l.globalUntil = now.Add(l.cfg.GlobalLockout)
		lockoutsTotal.WithLabelValues(string(PolicyNewsletter), "global").Inc()
		return reject(PolicyNewsletter, ReasonEndpointLocked, l.cfg.GlobalLockout)
	}

	if wait, ok := l.last.wait(key, l.cfg.Interval, now); !ok {
		return reject(PolicyNewsletter, ReasonPerHour, wait)
	}
	return nil
}

// Commit starts key's interval once its signup has been stored
func (l *NewsletterLimiter) Commit(key string, now time.Time) {
	l.last.mark(key, now)
}

// BugReportLimiter allows one report per caller per interval
type BugReportLimiter struct {
	interval time.Duration
	last     *lastSent
}

// NewBugReportLimiter creates a bug report limiter
func NewBugReportLimiter(interval time.Duration) *BugReportLimiter {
	return &BugReportLimiter{interval: interval, last: newLastSent()}
}

// Check rejects key while its last accepted report is younger than the interval
func (l *BugReportLimiter) Check(key string, now time.Time) *Decision {
	if wait, ok := l.last.wait(key, l.interval, now); !ok {
		return reject(PolicyBugReport, ReasonPerHour, wait)
	}
	return nil
}

// Commit starts key's interval once its report has been stored
func (l *BugReportLimiter) Commit(key string, now time.Time) {
	l.last.mark(key, now)
}

// MessageLimiter caps chat writes per author inside a window
type MessageLimiter struct {
	limit  int
	window time.Duration
	events *Counter
}

// NewMessageLimiter creates a chat write limiter
func NewMessageLimiter(limit int, window time.Duration) *MessageLimiter {
	return &MessageLimiter{limit: limit, window: window, events: NewCounter()}
}

// Check records one chat write for key
func (l *MessageLimiter) Check(key string, now time.Time) *Decision {
	l.events.Record(key, now)
	if l.events.CountWithin(key, l.window, now) > l.limit {
		return reject(PolicyMessage, ReasonMessageFlood, l.window)
	}
	return nil
}

// lastSent tracks the last accepted action per key
type lastSent struct {
	mu   sync.Mutex
	sent map[string]time.Time
}

func newLastSent() *lastSent {
	return &lastSent{sent: make(map[string]time.Time)}
}

// wait reports whether the previous action of key is at least interval old.
// Otherwise it returns the remaining wait.
func (s *lastSent) wait(key string, interval time.Duration, now time.Time) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.sent[key]; ok {
		if elapsed := now.Sub(prev); elapsed < interval {
			return interval - elapsed, false
		}
	}
	return 0, true
}

// mark records an accepted action of key
func (s *lastSent) mark(key string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[key] = now
}
