// Package watch implements file watching for automatic log re-aggregation.
package watch

import (
	"sync"
	"time"
)

// MaxPendingSlugs is the maximum number of slugs that can be pending.
// Hitting the limit triggers an immediate flush to bound memory growth
// under rapid file creation (bulk imports, sync tools).
const MaxPendingSlugs = 1000

// Debouncer coalesces rapid file change events into batched updates.
// Events within the window are grouped so a burst of saves triggers one
// re-aggregation instead of many.
type Debouncer struct {
	mu      sync.Mutex
	pending map[string]struct{} // set of pending slugs
	timer   *time.Timer
	window  time.Duration
	onFlush func(slugs []string)
	stopped bool
}

// NewDebouncer creates a debouncer with the given window duration.
// The onFlush callback receives the affected slugs after the window
// expires with no new events.
func NewDebouncer(window time.Duration, onFlush func(slugs []string)) *Debouncer {
	return &Debouncer{
		pending: make(map[string]struct{}),
		window:  window,
		onFlush: onFlush,
	}
}

// Add records a change for the given slug. Multiple calls with the same slug
// within the window are coalesced.
func (d *Debouncer) Add(slug string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[slug] = struct{}{}

	if len(d.pending) >= MaxPendingSlugs {
		if d.timer != nil {
			d.timer.Stop()
			d.timer = nil
		}
		d.flushLocked()
		return
	}

	// timer.Stop may return false if the timer already fired and flush is
	// queued; that is safe because flush exits early when pending is empty.
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

// flush is called when the timer expires.
func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushLocked()
}

// flushLocked performs the flush. Caller must hold d.mu.
func (d *Debouncer) flushLocked() {
	if d.stopped || len(d.pending) == 0 {
		return
	}

	slugs := make([]string, 0, len(d.pending))
	for s := range d.pending {
		slugs = append(slugs, s)
	}
	d.pending = make(map[string]struct{})

	// Call the handler outside the lock to prevent deadlocks; the deferred
	// unlock in callers expects the lock held on return.
	d.mu.Unlock()
	if d.onFlush != nil {
		d.onFlush(slugs)
	}
	d.mu.Lock()
}

// FlushNow immediately flushes pending slugs without waiting for the timer.
func (d *Debouncer) FlushNow() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}

	slugs := make([]string, 0, len(d.pending))
	for s := range d.pending {
		slugs = append(slugs, s)
	}
	d.pending = make(map[string]struct{})
	d.mu.Unlock()

	if d.onFlush != nil {
		d.onFlush(slugs)
	}
}

// Stop stops the debouncer. Any pending slugs are flushed.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	slugs := make([]string, 0, len(d.pending))
	for s := range d.pending {
		slugs = append(slugs, s)
	}
	d.pending = make(map[string]struct{})
	d.mu.Unlock()

	if len(slugs) > 0 && d.onFlush != nil {
		d.onFlush(slugs)
	}
}

// PendingCount returns the number of slugs waiting to be flushed.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
