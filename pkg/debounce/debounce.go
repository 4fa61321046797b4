// Package debounce delays propagation of a rapidly changing value until it has been stable for a fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Debouncer holds the latest value passed to Set and hands it to the apply
// function once no further Set call has arrived for the configured delay.
type Debouncer[T any] struct {
	// applyMu serializes apply calls so a value taken earlier never lands after a later one.
	applyMu sync.Mutex
	mu      sync.Mutex
	delay   time.Duration
	apply   func(T)
	timer   *time.Timer
	pending bool
	value   T
	// gen identifies the current wait, a timer from a superseded wait must not apply.
	gen uint64
}

// New creates a Debouncer that calls apply with the latest value after delay.
// apply runs on a timer goroutine unless the value is applied through Flush. Calls to
// apply never overlap, and apply must not call Flush.
func New[T any](delay time.Duration, apply func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay: delay,
		apply: apply,
	}
}

// Set records v as the latest value and restarts the wait.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.value = v
	d.pending = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

// Flush applies the pending value immediately, if any, and reports whether it did.
func (d *Debouncer[T]) Flush() bool {
	d.applyMu.Lock()
	defer d.applyMu.Unlock()

	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	v := d.take()
	d.mu.Unlock()

	d.apply(v)
	return true
}

// Stop discards the pending value without applying it.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending {
		d.take()
	}
}

// Pending reports whether a value is waiting to be applied.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Delay returns the configured quiet interval.
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.applyMu.Lock()
	defer d.applyMu.Unlock()

	d.mu.Lock()
	if !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.take()
	d.mu.Unlock()

	d.apply(v)
}

// take clears the pending state and returns the value. Caller holds d.mu.
func (d *Debouncer[T]) take() T {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
	v := d.value
	var zero T
	d.value = zero
	return v
}
