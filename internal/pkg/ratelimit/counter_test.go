package ratelimit

import (
	"testing"
	"time"
)

func TestCounterCountWithin_MatchesEventAges(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		n      int
		delta  time.Duration
		window time.Duration
	}{
		{name: "all inside", n: 5, delta: time.Second, window: time.Minute},
		{name: "half expired", n: 10, delta: 10 * time.Second, window: 50 * time.Second},
		{name: "boundary excluded", n: 4, delta: 20 * time.Second, window: 60 * time.Second},
		{name: "single event", n: 1, delta: time.Hour, window: time.Millisecond},
		{name: "none inside", n: 3, delta: time.Minute, window: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCounter()
			for i := 0; i < tc.n; i++ {
				c.Record("k", base.Add(time.Duration(i)*tc.delta))
			}
			now := base.Add(time.Duration(tc.n-1) * tc.delta)

			want := 0
			for i := 0; i < tc.n; i++ {
				age := now.Sub(base.Add(time.Duration(i) * tc.delta))
				if age < tc.window {
					want++
				}
			}

			if got := c.CountWithin("k", tc.window, now); got != want {
				t.Fatalf("expected %d events, got %d", want, got)
			}
		})
	}
}

func TestCounterCountWithin_PrunesExpiredKeys(t *testing.T) {
	now := time.Now()
	c := NewCounter()
	c.Record("old", now.Add(-2*time.Minute))

	if got := c.CountWithin("old", time.Minute, now); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if _, ok := c.events["old"]; ok {
		t.Fatal("expected empty key to be dropped")
	}
}

func TestCounterCountAll_SkipsKeys(t *testing.T) {
	now := time.Now()
	c := NewCounter()
	for i := 0; i < 3; i++ {
		c.Record("a", now)
		c.Record("b", now)
	}

	if got := c.CountAll(time.Minute, now, nil); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
	got := c.CountAll(time.Minute, now, func(k string) bool { return k == "b" })
	if got != 3 {
		t.Fatalf("expected 3 with b skipped, got %d", got)
	}
}
