// Package flood limits how many requests a single client may make per minute.
package flood

import (
	"sync"
	"time"
)

const (
	// windowDuration is the sliding window requests are counted over
	windowDuration = 60 * time.Second
	// idleTimeout is how long a quiet client is remembered
	idleTimeout = 10 * time.Minute
)

// Limiter is a per-client sliding-window rate limiter.
type Limiter struct {
	limitPerMinute int
	clients        map[string]*clientEntry
	lastCleanup    time.Time
	now            func() time.Time
	mutex          sync.Mutex
}

type clientEntry struct {
	timestamps []time.Time
	lastSeen   time.Time
}

// New creates a Limiter allowing limitPerMinute requests per client.
// A non-positive limit disables limiting.
func New(limitPerMinute int) *Limiter {
	return &Limiter{
		limitPerMinute: limitPerMinute,
		clients:        make(map[string]*clientEntry),
		now:            time.Now,
	}
}

// Allow records a request from client and reports whether it is within the limit.
func (l *Limiter) Allow(client string) bool {
	if l.limitPerMinute <= 0 {
		return true
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := l.now()
	l.cleanup(now)

	entry, exists := l.clients[client]
	if !exists {
		entry = &clientEntry{timestamps: make([]time.Time, 0, l.limitPerMinute+1)}
		l.clients[client] = entry
	}
	entry.lastSeen = now

	windowStart := now.Add(-windowDuration)
	valid := entry.timestamps[:0]
	for _, ts := range entry.timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}
	entry.timestamps = valid

	if len(entry.timestamps) >= l.limitPerMinute {
		return false
	}

	entry.timestamps = append(entry.timestamps, now)
	return true
}

// Clients returns the number of clients currently tracked.
func (l *Limiter) Clients() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.clients)
}

// cleanup drops idle clients, at most once per idleTimeout. Caller holds the mutex.
func (l *Limiter) cleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < idleTimeout {
		return
	}
	l.lastCleanup = now

	cutoff := now.Add(-idleTimeout)
	for client, entry := range l.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(l.clients, client)
		}
	}
}
