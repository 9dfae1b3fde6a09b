package util

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of values: every Trigger re-arms a single-shot
// timer and only the latest value is delivered once the timer fires
// uninterrupted. The callback runs on the timer goroutine.
//
// Deliveries are serialized, so a Flush never overtakes a timer delivery
// that already started. fn must not call Flush.
type Debouncer[T any] struct {
	deliver sync.Mutex
	mu      sync.Mutex
	delay   time.Duration
	fn      func(T)
	timer   *time.Timer
	pending T
	armed   bool
	gen     uint64
	stopped bool
}

// NewDebouncer returns a debouncer that calls fn after delay of quiet.
func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger replaces the pending value and restarts the quiet window.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = v
	d.armed = true
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.deliver.Lock()
	defer d.deliver.Unlock()
	d.mu.Lock()
	// a newer Trigger, Flush or Stop superseded this timer
	if gen != d.gen || !d.armed || d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.armed = false
	d.timer = nil
	d.mu.Unlock()
	d.fn(v)
}

// Flush delivers the pending value immediately on the caller's goroutine.
// It reports whether a value was pending.
func (d *Debouncer[T]) Flush() bool {
	d.deliver.Lock()
	defer d.deliver.Unlock()
	d.mu.Lock()
	if !d.armed || d.stopped {
		d.mu.Unlock()
		return false
	}
	v := d.pending
	d.armed = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.fn(v)
	return true
}

// Pending reports whether a value is waiting for the timer.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

// Stop cancels any pending delivery. Later Triggers are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.armed = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
