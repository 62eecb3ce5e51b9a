package ratelimit

import (
	"sync"
	"time"
)

// Counter tracks timestamped events per key inside a sliding window.
// Expired entries are discarded lazily whenever a key is counted.
type Counter struct {
	mu     sync.Mutex
	events map[string][]time.Time
}

// NewCounter creates an empty counter
func NewCounter() *Counter {
	return &Counter{events: make(map[string][]time.Time)}
}

// Record appends an event for key at now
func (c *Counter) Record(key string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events[key] = append(c.events[key], now)
}

// CountWithin returns the number of events for key younger than window.
func (c *Counter) CountWithin(key string, window time.Duration, now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.countLocked(key, window, now)
}

// CountAll sums CountWithin over every key for which skip returns false.
// A nil skip counts every key.
func (c *Counter) CountAll(window time.Duration, now time.Time, skip func(key string) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for key := range c.events {
		n := c.countLocked(key, window, now)
		if skip != nil && skip(key) {
			continue
		}
		total += n
	}
	return total
}

// Reset drops every event recorded for key
func (c *Counter) Reset(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.events, key)
}

func (c *Counter) countLocked(key string, window time.Duration, now time.Time) int {
	timestamps := c.events[key]
	kept := timestamps[:0]
	for _, ts := range timestamps {
		if now.Sub(ts) < window {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(c.events, key)
		return 0
	}
	c.events[key] = kept
	return len(kept)
}
