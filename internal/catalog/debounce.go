package catalog

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet window before a typed query is fetched
const DefaultDebounce = 500 * time.Millisecond

// Debouncer delays a callback until its input has been quiet for the wait
// window. Only the trailing value fires.
type Debouncer struct {
	wait time.Duration
	fn   func(string)

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	armed   bool
	gen     uint64 // Invalidates timers that were stopped too late
}

// NewDebouncer creates a debouncer that calls fn on its own goroutine
func NewDebouncer(wait time.Duration, fn func(string)) *Debouncer {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Debouncer{wait: wait, fn: fn}
}

// Push records value and restarts the quiet window
func (d *Debouncer) Push(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.pending = value
	d.armed = true
	gen := d.gen
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen) })
}

// Flush fires a pending value immediately on the calling goroutine.
// It reports whether anything was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return false
	}
	value := d.pending
	d.stopLocked()
	d.mu.Unlock()

	d.fn(value)
	return true
}

// Stop discards any pending value
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.armed {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.armed = false
	d.timer = nil
	d.mu.Unlock()

	d.fn(value)
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.armed = false
	d.pending = ""
	d.gen++
}
