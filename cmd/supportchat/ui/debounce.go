package ui

import (
	"sync"
	"time"

	"supportchat/internal/clock"
)

// DefaultResizeDuration is the recommended debounce duration for resize events
const DefaultResizeDuration = 150 * time.Millisecond

// Debouncer runs the last of a burst of calls once the burst has been quiet
// for the configured duration.
type Debouncer struct {
	mu       sync.Mutex
	clk      clock.Clock
	timer    clock.Timer
	duration time.Duration
}

// NewDebouncer creates a debouncer on clk.
func NewDebouncer(clk clock.Clock, duration time.Duration) *Debouncer {
	return &Debouncer{clk: clk, duration: duration}
}

// Debounce schedules fn, replacing any pending call.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	t := d.clk.AfterFunc(d.duration, fn)

	d.mu.Lock()
	d.timer = t
	d.mu.Unlock()
}

// Cancel cancels any pending debounced function call
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Immediate executes the function immediately and cancels any pending call
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}

// ResizeDebouncer is a specialized debouncer for window resize events
type ResizeDebouncer struct {
	debouncer     *Debouncer
	mu            sync.Mutex
	lastWidth     int
	lastHeight    int
	pendingWidth  int
	pendingHeight int
}

// NewResizeDebouncer creates a debouncer for resize events.
func NewResizeDebouncer(clk clock.Clock, duration time.Duration) *ResizeDebouncer {
	return &ResizeDebouncer{debouncer: NewDebouncer(clk, duration)}
}

// Resize records the latest size and calls handler with it once resizing
// settles.
func (rd *ResizeDebouncer) Resize(width, height int, handler func(int, int)) {
	rd.mu.Lock()
	rd.pendingWidth = width
	rd.pendingHeight = height
	rd.mu.Unlock()

	rd.debouncer.Debounce(func() {
		rd.mu.Lock()
		w, h := rd.pendingWidth, rd.pendingHeight
		rd.lastWidth = w
		rd.lastHeight = h
		rd.mu.Unlock()

		handler(w, h)
	})
}

// ResizeNow applies the size at once and drops any pending resize.
func (rd *ResizeDebouncer) ResizeNow(width, height int, handler func(int, int)) {
	rd.debouncer.Immediate(func() {
		rd.mu.Lock()
		rd.pendingWidth, rd.pendingHeight = width, height
		rd.lastWidth, rd.lastHeight = width, height
		rd.mu.Unlock()

		handler(width, height)
	})
}

// GetLastSize returns the last processed size
func (rd *ResizeDebouncer) GetLastSize() (width, height int) {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return rd.lastWidth, rd.lastHeight
}

// Cancel cancels any pending resize
func (rd *ResizeDebouncer) Cancel() {
	rd.debouncer.Cancel()
}
