package ratelimit

import "time"

// Policy names a limiter class
type Policy string

const (
	PolicyAccount    Policy = "account"
	PolicyNewsletter Policy = "newsletter"
	PolicyBugReport  Policy = "bug_report"
	PolicyAPIKey     Policy = "api_key"
	PolicyMessage    Policy = "message"
)

// Reason distinguishes why a request was rejected
type Reason string

const (
	ReasonEndpointLocked Reason = "endpoint_locked"
	ReasonCallerLocked   Reason = "caller_locked"
	ReasonPerMinute      Reason = "per_minute"
	ReasonPerFiveMinutes Reason = "per_five_minutes"
	ReasonPerHour        Reason = "per_hour"
	ReasonAPIKeyLocked   Reason = "api_key_locked"
	ReasonMessageFlood   Reason = "per_minute_messages"
)

var reasonMessages = map[Reason]string{
	ReasonEndpointLocked: "Zu viele Anfragen. Dieser Bereich ist vorübergehend gesperrt.",
	ReasonCallerLocked:   "Zu viele Anfragen. Deine IP ist vorübergehend gesperrt.",
	ReasonPerMinute:      "Zu viele Anfragen. Maximal 5 pro Minute.",
	ReasonPerFiveMinutes: "Zu viele Anfragen. Maximal 20 in 5 Minuten. Deine IP wurde gesperrt.",
	ReasonPerHour:        "Nur eine Anfrage pro Stunde erlaubt.",
	ReasonAPIKeyLocked:   "Zu viele fehlgeschlagene API-Key-Versuche. Bitte später erneut versuchen.",
	ReasonMessageFlood:   "Zu viele Nachrichten. Bitte warte einen Moment.",
}

// Decision describes a rejected request. A nil *Decision means allowed.
type Decision struct {
	Policy     Policy
	Reason     Reason
	RetryAfter time.Duration
}

// Message returns the user-facing text for the rejection
func (d *Decision) Message() string {
	return reasonMessages[d.Reason]
}

// Error implements error so a decision can travel through service layers
func (d *Decision) Error() string {
	return string(d.Policy) + ": " + d.Message()
}

func reject(policy Policy, reason Reason, retryAfter time.Duration) *Decision {
	if retryAfter < 0 {
		retryAfter = 0
	}
	d := &Decision{Policy: policy, Reason: reason, RetryAfter: retryAfter}
	rejectionsTotal.WithLabelValues(string(policy), string(reason)).Inc()
	return d
}
