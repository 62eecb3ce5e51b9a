package ratelimit

import "time"

// Registry owns every limiter of the process. It is constructed once in main
// and handed to the handlers that need it.
type Registry struct {
	Account    *AccountLimiter
	Newsletter *NewsletterLimiter
	BugReport  *BugReportLimiter
	APIKey     *APIKeyLimiter
	Message    *MessageLimiter

	now func() time.Time
}

// NewRegistry creates a registry with production ceilings
func NewRegistry() *Registry {
	return &Registry{
		Account:    NewAccountLimiter(DefaultAccountConfig()),
		Newsletter: NewNewsletterLimiter(DefaultNewsletterConfig()),
		BugReport:  NewBugReportLimiter(time.Hour),
		APIKey:     NewAPIKeyLimiter(DefaultAPIKeyConfig()),
		Message:    NewMessageLimiter(30, time.Minute),
		now:        time.Now,
	}
}

// WithClock replaces the time source, used by tests
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// Now returns the registry's current time
func (r *Registry) Now() time.Time {
	return r.now()
}
