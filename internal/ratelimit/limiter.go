// Package ratelimit implements the sliding-window admission counter for
// query throttling. Sustained high query rates are the signature of bulk
// data extraction, which the access conditions forbid.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"omopgate/internal/domain"
)

// State is a point-in-time snapshot of the limiter for the status surface.
type State struct {
	QueriesInLastHour int `json:"queries_in_last_hour"`
	MaxPerHour        int `json:"max_per_hour"`
	MaxPerMinute      int `json:"max_per_minute"`
}

// Limiter counts accepted submissions over a sliding hour window and
// evaluates two independent caps: per-hour and per-minute. State is
// process-lifetime only — a restart resets the counts. That is a
// documented limitation, not a defect.
type Limiter struct {
	maxPerHour   int
	maxPerMinute int
	now          domain.Clock

	mu    sync.Mutex
	times []time.Time // accepted-submission timestamps, oldest first
}

// New creates a Limiter with the given caps, reading time from clock.
func New(maxPerHour, maxPerMinute int, clock domain.Clock) *Limiter {
	if clock == nil {
		clock = time.Now
	}
	return &Limiter{maxPerHour: maxPerHour, maxPerMinute: maxPerMinute, now: clock}
}

// Check reports whether a new submission is within both caps. It is a pure
// read: no timestamps are recorded or pruned. Timestamps exactly at a
// window edge do not count (strict greater-than).
func (l *Limiter) Check() (bool, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	hourAgo := now.Add(-time.Hour)
	minuteAgo := now.Add(-time.Minute)

	inHour, inMinute := 0, 0
	for _, t := range l.times {
		if t.After(hourAgo) {
			inHour++
			if t.After(minuteAgo) {
				inMinute++
			}
		}
	}

	if inHour >= l.maxPerHour {
		return false, fmt.Sprintf("rate limit exceeded: %d queries/hour, please wait", l.maxPerHour)
	}
	if inMinute >= l.maxPerMinute {
		return false, fmt.Sprintf("rate limit exceeded: %d queries/minute, please slow down", l.maxPerMinute)
	}
	return true, "OK"
}

// Record appends the current time and prunes entries older than the hour
// window, preserving the invariant that every retained timestamp is inside
// the window.
func (l *Limiter) Record() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	hourAgo := now.Add(-time.Hour)

	kept := l.times[:0]
	for _, t := range l.times {
		if t.After(hourAgo) {
			kept = append(kept, t)
		}
	}
	l.times = append(kept, now)
}

// Snapshot returns the current limiter state.
func (l *Limiter) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	hourAgo := l.now().Add(-time.Hour)
	inHour := 0
	for _, t := range l.times {
		if t.After(hourAgo) {
			inHour++
		}
	}
	return State{
		QueriesInLastHour: inHour,
		MaxPerHour:        l.maxPerHour,
		MaxPerMinute:      l.maxPerMinute,
	}
}
