package ratelimit

import (
	"fmt"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func TestAccountLimiter_SixthRequestPerMinuteRejected(t *testing.T) {
	l := NewAccountLimiter(DefaultAccountConfig())

	for i := 0; i < 5; i++ {
		if d := l.Check("1.2.3.4", t0.Add(time.Duration(i)*time.Second)); d != nil {
			t.Fatalf("request %d: unexpected rejection %s", i+1, d.Reason)
		}
	}

	d := l.Check("1.2.3.4", t0.Add(9*time.Second))
	if d == nil {
		t.Fatal("expected sixth request to be rejected")
	}
	if d.Reason != ReasonPerMinute {
		t.Fatalf("expected %s, got %s", ReasonPerMinute, d.Reason)
	}
	if d.Message() != "Zu viele Anfragen. Maximal 5 pro Minute." {
		t.Fatalf("unexpected message %q", d.Message())
	}

	if d := l.Check("5.6.7.8", t0.Add(10*time.Second)); d != nil {
		t.Fatalf("other caller should pass, got %s", d.Reason)
	}
}

// burstRound sends 21 requests spaced 13s apart, which stays at five per
// minute and exceeds 20 per five minutes on the last request.
func burstRound(t *testing.T, l *AccountLimiter, key string, start time.Time) (time.Time, *Decision) {
	t.Helper()
	var at time.Time
	for i := 0; i < 20; i++ {
		at = start.Add(time.Duration(i) * 13 * time.Second)
		if d := l.Check(key, at); d != nil {
			t.Fatalf("request %d: unexpected rejection %s", i+1, d.Reason)
		}
	}
	at = start.Add(20 * 13 * time.Second)
	return at, l.Check(key, at)
}

func TestAccountLimiter_EscalatingLockout(t *testing.T) {
	l := NewAccountLimiter(DefaultAccountConfig())
	key := "9.9.9.9"

	violation, d := burstRound(t, l, key, t0)
	if d == nil || d.Reason != ReasonPerFiveMinutes {
		t.Fatalf("expected per-five-minute rejection, got %+v", d)
	}
	until, ok := l.LockedUntil(key, violation)
	if !ok || !until.Equal(violation.Add(time.Hour)) {
		t.Fatalf("expected 1h lock, got %v (locked=%v)", until.Sub(violation), ok)
	}

	if d := l.Check(key, violation.Add(30*time.Minute)); d == nil || d.Reason != ReasonCallerLocked {
		t.Fatalf("expected caller_locked during lock, got %+v", d)
	}

	second, d := burstRound(t, l, key, violation.Add(time.Hour+time.Minute))
	if d == nil || d.Reason != ReasonPerFiveMinutes {
		t.Fatalf("expected second per-five-minute rejection, got %+v", d)
	}
	until, ok = l.LockedUntil(key, second)
	if !ok || !until.Equal(second.Add(24*time.Hour)) {
		t.Fatalf("expected 24h lock, got %v", until.Sub(second))
	}
	if l.BlockCount(key) != 2 {
		t.Fatalf("expected block count 2, got %d", l.BlockCount(key))
	}
}

func TestAccountLimiter_GlobalCeilingLocksEndpoint(t *testing.T) {
	l := NewAccountLimiter(DefaultAccountConfig())

	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("10.0.%d.%d", i/5, i%5)
		if d := l.Check(key, t0.Add(time.Duration(i)*100*time.Millisecond)); d != nil {
			t.Fatalf("request %d: unexpected rejection %s", i+1, d.Reason)
		}
	}

	d := l.Check("10.1.0.1", t0.Add(6*time.Second))
	if d == nil || d.Reason != ReasonEndpointLocked {
		t.Fatalf("expected endpoint lock, got %+v", d)
	}
	if d := l.Check("10.1.0.2", t0.Add(30*time.Second)); d == nil || d.Reason != ReasonEndpointLocked {
		t.Fatalf("expected endpoint still locked, got %+v", d)
	}
}

func TestAccountLimiter_LockedCallersExcludedFromGlobalWindow(t *testing.T) {
	cfg := DefaultAccountConfig()
	cfg.GlobalLimit = 10
	cfg.BurstLimit = 3
	cfg.PerMinuteLimit = 100
	l := NewAccountLimiter(cfg)

	for i := 0; i < 4; i++ {
		l.Check("noisy", t0)
	}
	if _, ok := l.LockedUntil("noisy", t0); !ok {
		t.Fatal("expected noisy caller to be locked")
	}
	for i := 0; i < 5; i++ {
		l.Check("noisy", t0.Add(time.Second))
	}

	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("quiet-%d", i)
		if d := l.Check(key, t0.Add(2*time.Second)); d != nil {
			t.Fatalf("quiet caller %d rejected: %s", i, d.Reason)
		}
	}
}

func TestNewsletterLimiter(t *testing.T) {
	l := NewNewsletterLimiter(DefaultNewsletterConfig())

	if d := l.Check("a", t0); d != nil {
		t.Fatalf("unexpected rejection %s", d.Reason)
	}
	l.Commit("a", t0)
	if d := l.Check("a", t0.Add(59*time.Minute)); d == nil || d.Reason != ReasonPerHour {
		t.Fatalf("expected per_hour, got %+v", d)
	}
	if d := l.Check("a", t0.Add(61*time.Minute)); d != nil {
		t.Fatalf("expected pass after an hour, got %s", d.Reason)
	}
}

func TestNewsletterLimiter_GlobalLockout(t *testing.T) {
	l := NewNewsletterLimiter(DefaultNewsletterConfig())

	for i := 0; i < 5; i++ {
		if d := l.Check(fmt.Sprintf("ip-%d", i), t0.Add(time.Duration(i)*time.Second)); d != nil {
			t.Fatalf("request %d rejected: %s", i+1, d.Reason)
		}
	}
	if d := l.Check("ip-5", t0.Add(10*time.Second)); d == nil || d.Reason != ReasonEndpointLocked {
		t.Fatalf("expected endpoint lock, got %+v", d)
	}
	if d := l.Check("ip-6", t0.Add(9*time.Minute)); d == nil || d.Reason != ReasonEndpointLocked {
		t.Fatalf("expected lock to last 10 minutes, got %+v", d)
	}
	if d := l.Check("ip-7", t0.Add(11*time.Minute)); d != nil {
		t.Fatalf("expected pass after lockout, got %s", d.Reason)
	}
}

func TestBugReportLimiter(t *testing.T) {
	l := NewBugReportLimiter(time.Hour)

	if d := l.Check("a", t0); d != nil {
		t.Fatalf("unexpected rejection %s", d.Reason)
	}
	l.Commit("a", t0)
	d := l.Check("a", t0.Add(10*time.Minute))
	if d == nil || d.Reason != ReasonPerHour {
		t.Fatalf("expected per_hour, got %+v", d)
	}
	if d.RetryAfter != 50*time.Minute {
		t.Fatalf("expected 50m retry, got %v", d.RetryAfter)
	}
	if d := l.Check("b", t0.Add(10*time.Minute)); d != nil {
		t.Fatalf("other caller rejected: %s", d.Reason)
	}
}

func TestSingleActionLimiters_CheckWithoutCommitKeepsSlot(t *testing.T) {
	nl := NewNewsletterLimiter(DefaultNewsletterConfig())
	br := NewBugReportLimiter(time.Hour)

	for i := 0; i < 3; i++ {
		at := t0.Add(time.Duration(i) * time.Second)
		if d := nl.Check("a", at); d != nil {
			t.Fatalf("newsletter attempt %d rejected: %s", i+1, d.Reason)
		}
		if d := br.Check("a", at); d != nil {
			t.Fatalf("bug report attempt %d rejected: %s", i+1, d.Reason)
		}
	}

	nl.Commit("a", t0.Add(3*time.Second))
	if d := nl.Check("a", t0.Add(4*time.Second)); d == nil || d.Reason != ReasonPerHour {
		t.Fatalf("expected per_hour after commit, got %+v", d)
	}
}

func TestAPIKeyLimiter_LocksOnThirdFailure(t *testing.T) {
	l := NewAPIKeyLimiter(DefaultAPIKeyConfig())

	l.Fail(t0)
	l.Fail(t0.Add(time.Second))
	if d := l.Check(t0.Add(2 * time.Second)); d != nil {
		t.Fatal("two failures must not lock yet")
	}

	l.Fail(t0.Add(3 * time.Second))
	d := l.Check(t0.Add(4 * time.Second))
	if d == nil || d.Reason != ReasonAPIKeyLocked {
		t.Fatalf("expected api key lock, got %+v", d)
	}
	if d := l.Check(t0.Add(3*time.Second + 10*time.Minute)); d != nil {
		t.Fatal("lock should expire after 10 minutes")
	}
}

func TestAPIKeyLimiter_SuccessResetsFailures(t *testing.T) {
	l := NewAPIKeyLimiter(DefaultAPIKeyConfig())

	l.Fail(t0)
	l.Fail(t0.Add(time.Second))
	l.Succeed()
	l.Fail(t0.Add(2 * time.Second))

	if d := l.Check(t0.Add(3 * time.Second)); d != nil {
		t.Fatal("success should have cleared the failure history")
	}
}

func TestMessageLimiter(t *testing.T) {
	l := NewMessageLimiter(2, time.Minute)

	l.Check("anna", t0)
	l.Check("anna", t0)
	if d := l.Check("anna", t0); d == nil || d.Reason != ReasonMessageFlood {
		t.Fatalf("expected flood rejection, got %+v", d)
	}
	if d := l.Check("anna", t0.Add(2*time.Minute)); d != nil {
		t.Fatalf("expected pass after window, got %s", d.Reason)
	}
}
