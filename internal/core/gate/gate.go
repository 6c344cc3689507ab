// Package gate provides an in-process rate-limiting gate for automation
// actions. Callers ask the gate whether an (operation, id) pair may fire
// now; the gate records the last permitted fire time per pair and
// suppresses repeat calls inside the configured period.
//
// The gate uses wall-clock time to match the behavior callers observe in
// alert timestamps. System clock adjustments can therefore cause early
// permission or over-suppression. Tracked keys are never evicted
// automatically; use Prune or Reset from the admin surface when entry
// counts matter.
package gate

import (
	"sort"
	"sync"
	"time"
)

// Key identifies one rate-limited action instance.
type Key struct {
	Operation string `json:"operation"`
	ID        string `json:"id"`
}

// Entry is a point-in-time snapshot of one tracked key.
type Entry struct {
	Key       Key       `json:"key"`
	LastFired time.Time `json:"last_fired"`
}

// RateLimiter is a process-wide gate over last-fire times. Construct one
// with New at startup and share it by reference; all state lives behind a
// single mutex so the check-and-record step is atomic per call.
type RateLimiter struct {
	// Clock overrides the time source, primarily for tests.
	Clock func() time.Time

	mu       sync.Mutex
	lastFire map[Key]time.Time
}

// New returns an empty gate.
func New() *RateLimiter {
	return &RateLimiter{
		lastFire: make(map[Key]time.Time),
	}
}

// MarkAndTest reports whether the (operation, id) pair may fire now.
// The first call for a pair always succeeds. A later call succeeds only
// when strictly more than period has elapsed since the last permitted
// call; a call at exactly period is still suppressed. Permitted calls
// record the current time as the pair's new last-fire time, suppressed
// calls leave it untouched.
//
// The operation never fails: empty strings are accepted as-is and a
// negative period behaves like zero.
func (r *RateLimiter) MarkAndTest(operation, id string, period time.Duration) bool {
	if period < 0 {
		period = 0
	}

	key := Key{Operation: operation, ID: id}
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	last, ok := r.lastFire[key]
	if ok && now.Sub(last) <= period {
		return false
	}

	r.lastFire[key] = now
	return true
}

// Len returns the number of tracked keys.
func (r *RateLimiter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lastFire)
}

// Snapshot returns all tracked entries ordered by operation then id.
func (r *RateLimiter) Snapshot() []Entry {
	r.mu.Lock()
	entries := make([]Entry, 0, len(r.lastFire))
	for key, last := range r.lastFire {
		entries = append(entries, Entry{Key: key, LastFired: last})
	}
	r.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Key.Operation != entries[j].Key.Operation {
			return entries[i].Key.Operation < entries[j].Key.Operation
		}
		return entries[i].Key.ID < entries[j].Key.ID
	})
	return entries
}

// Prune drops entries whose last fire is older than olderThan and returns
// the number removed. Pruned pairs behave like first calls afterwards, so
// prune with an olderThan comfortably above the largest period in use.
func (r *RateLimiter) Prune(olderThan time.Duration) int {
	cutoff := r.now().Add(-olderThan)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, last := range r.lastFire {
		if last.Before(cutoff) {
			delete(r.lastFire, key)
			removed++
		}
	}
	return removed
}

// Reset forgets a single pair, reporting whether it was tracked.
func (r *RateLimiter) Reset(operation, id string) bool {
	key := Key{Operation: operation, ID: id}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lastFire[key]; !ok {
		return false
	}
	delete(r.lastFire, key)
	return true
}

func (r *RateLimiter) now() time.Time {
	if r != nil && r.Clock != nil {
		return r.Clock()
	}
	return time.Now().UTC()
}
