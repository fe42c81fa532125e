// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// userThrottle keeps one token bucket per user for recommendation requests.
// A non-positive rate disables throttling.
type userThrottle struct {
	mu      sync.Mutex
	users   map[int]*throttleEntry
	limit   rate.Limit
	burst   int
	enabled bool
	now     func() time.Time
}

func newUserThrottle(perMinute float64, burst int) *userThrottle {
	t := &userThrottle{
		users: make(map[int]*throttleEntry),
		now:   time.Now,
	}
	if perMinute <= 0 {
		return t
	}
	if burst < 1 {
		burst = 1
	}
	t.enabled = true
	t.limit = rate.Every(time.Duration(float64(time.Minute) / perMinute))
	t.burst = burst
	return t
}

// allow reports whether userID may run another recommendation now. When it
// may not, the second result is the suggested wait.
func (t *userThrottle) allow(userID int) (bool, time.Duration) {
	if !t.enabled {
		return true, 0
	}

	now := t.now()
	t.mu.Lock()
	e, ok := t.users[userID]
	if !ok {
		e = &throttleEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.users[userID] = e
	}
	e.lastSeen = now
	t.mu.Unlock()

	r := e.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// prune removes limiters not used within idle.
func (t *userThrottle) prune(idle time.Duration) int {
	cutoff := t.now().Add(-idle)
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for id, e := range t.users {
		if e.lastSeen.Before(cutoff) {
			delete(t.users, id)
			removed++
		}
	}
	return removed
}

func (t *userThrottle) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.users)
}
