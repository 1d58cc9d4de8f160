// Package debounce coalesces bursts of updates into a single delayed emission.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used for search input
const DefaultDelay = 500 * time.Millisecond

// Debouncer delivers the most recent value passed to Set once no new value
// has arrived for the configured delay. Values superseded before the delay
// elapses are never delivered.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	// emitMu is held across fn so emissions land in the order they were taken
	emitMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
	next    T
	value   T
}

// New creates a Debouncer that calls fn with the settled value. fn runs on
// the timer goroutine.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{
		delay: delay,
		fn:    fn,
	}
}

// Set records v and restarts the quiet period, cancelling any pending emission
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.next = v
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

// fire emits the pending value if no newer Set happened since it was scheduled.
// A timer that already fired cannot be stopped, so the generation check keeps
// a stale callback from emitting.
func (d *Debouncer[T]) fire(gen uint64) {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	v := d.next
	d.pending = false
	d.value = v
	d.mu.Unlock()

	if d.fn != nil {
		d.fn(v)
	}
}

// Flush emits the pending value immediately, if any. It returns after an
// emission already in progress has completed.
func (d *Debouncer[T]) Flush() {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	v := d.next
	d.pending = false
	d.value = v
	d.mu.Unlock()

	if d.fn != nil {
		d.fn(v)
	}
}

// Stop drops any pending value without emitting it
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.pending = false
}

// Pending reports whether a value is waiting for the quiet period to elapse
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Value returns the last emitted value
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}
