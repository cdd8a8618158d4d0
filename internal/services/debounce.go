package services

import (
	"sync"
	"time"
)

// Debouncer delays dispatch of a lookup until the input has been quiet for
// the configured period, so rapid retyping fires one request instead of one
// per keystroke. Each trigger supersedes the previous one: the superseded
// trigger's fn still runs exactly once, but under a generation that is no
// longer current, so a caller blocked on its completion is always released
// and can discard the stale work via Current. That discard check is what
// keeps a late-arriving response from overwriting newer state.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func(gen uint64)
	gen     uint64
}

// NewDebouncer creates a debouncer with the given quiet period. A zero
// delay dispatches immediately but still applies generation tracking.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the quiet period. A pending earlier trigger is
// superseded: its fn is invoked immediately under its now-stale generation
// instead of waiting out the timer.
func (d *Debouncer) Trigger(fn func(gen uint64)) {
	d.mu.Lock()
	d.releaseStaleLocked()
	d.gen++
	gen := d.gen

	if d.delay <= 0 {
		d.mu.Unlock()
		go fn(gen)
		return
	}

	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.gen == gen {
			d.timer = nil
			d.pending = nil
		}
		d.mu.Unlock()
		fn(gen)
	})
	d.mu.Unlock()
}

// Cancel supersedes any pending or in-flight trigger. A pending fn is
// invoked under its stale generation so its waiters are released.
// Cancellation is not an error and performs no other state changes.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	d.releaseStaleLocked()
	d.gen++
	d.mu.Unlock()
}

// releaseStaleLocked stops the pending timer, if any, and runs its fn under
// the generation it was scheduled with. Caller holds mu; gen has not been
// bumped yet, so the fn's generation goes stale the moment the caller does.
func (d *Debouncer) releaseStaleLocked() {
	if d.timer == nil {
		return
	}
	if d.timer.Stop() {
		stale := d.pending
		staleGen := d.gen
		go stale(staleGen)
	}
	d.timer = nil
	d.pending = nil
}

// Current reports whether gen is still the authoritative generation. A
// completed call whose generation is no longer current must be ignored.
func (d *Debouncer) Current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}
