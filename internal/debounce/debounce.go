// Package debounce delays work until input has settled.
package debounce

import (
	"sync"
	"time"
)

// Handle is a scheduled call that can be cancelled before it fires.
type Handle struct {
	timer *time.Timer
}

// After schedules fn to run once after d.
func After(d time.Duration, fn func()) *Handle {
	return &Handle{timer: time.AfterFunc(d, fn)}
}

// Cancel stops the call. Returns true if fn had not started yet; once
// Cancel returns true, fn will never run.
func (h *Handle) Cancel() bool {
	if h == nil || h.timer == nil {
		return false
	}
	return h.timer.Stop()
}

// Debouncer runs only the most recently triggered function, once the
// delay has passed without another trigger.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending *Handle
	gen     uint64
}

// New creates a Debouncer with the given delay.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger cancels any pending call and schedules fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending.Cancel()
	d.gen++
	gen := d.gen

	d.pending = After(d.delay, func() {
		d.mu.Lock()
		// A newer trigger may have raced with the timer firing.
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()

		fn()
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending.Cancel()
	d.pending = nil
	d.gen++
}

// Pending reports whether a call is scheduled and hasn't fired.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
