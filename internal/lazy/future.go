// Package lazy implements deferred module acquisition: a module is loaded at
// most once, asynchronously, after an injectable delay, and the rendering layer
// substitutes a placeholder until it settles.
package lazy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"supportchat/internal/clock"
	"supportchat/internal/logging"
)

var (
	// ErrCanceled is reported when an acquisition is torn down before settling.
	ErrCanceled = errors.New("module acquisition canceled")
	// ErrLoadFailed wraps every loader error or panic.
	ErrLoadFailed = errors.New("module load failed")
)

// State is the readiness of a deferred module.
type State int

const (
	Pending State = iota
	Ready
	Failed
)

// String returns the display name for each state
func (s State) String() string {
	names := []string{"pending", "ready", "failed"}
	if int(s) >= 0 && int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// Loader produces a module. It should honour ctx cancellation.
type Loader[T any] func(ctx context.Context) (T, error)

// Future is a one-shot asynchronous acquisition of a module of type T.
type Future[T any] struct {
	name  string
	clk   clock.Clock
	delay time.Duration
	load  Loader[T]

	mu        sync.Mutex
	started   bool
	state     State
	value     T
	err       error
	timer     clock.Timer
	cancel    context.CancelFunc
	stopWatch func() bool
	done      chan struct{}
	watchers  []func(State)
}

// NewFuture creates an unstarted acquisition. The loader runs delay after Start.
func NewFuture[T any](name string, clk clock.Clock, delay time.Duration, load Loader[T]) *Future[T] {
	if delay < 0 {
		delay = 0
	}
	return &Future[T]{
		name:  name,
		clk:   clk,
		delay: delay,
		load:  load,
		done:  make(chan struct{}),
	}
}

// Name returns the module name.
func (f *Future[T]) Name() string {
	return f.name
}

// Start begins the acquisition. Later calls are no-ops. Cancelling ctx
// cancels the acquisition.
func (f *Future[T]) Start(ctx context.Context) {
	f.mu.Lock()
	if f.started || f.state != Pending {
		f.mu.Unlock()
		return
	}
	f.started = true
	loadCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.mu.Unlock()

	logging.Loader("acquiring %s (delay %v)", f.name, f.delay)

	stop := context.AfterFunc(loadCtx, f.Cancel)
	timer := f.clk.AfterFunc(f.delay, func() { f.run(loadCtx) })

	f.mu.Lock()
	f.stopWatch = stop
	f.timer = timer
	f.mu.Unlock()
}

func (f *Future[T]) run(ctx context.Context) {
	if ctx.Err() != nil {
		f.settle(Failed, *new(T), ErrCanceled)
		return
	}

	timer := logging.StartTimer(logging.CategoryLoader, "load "+f.name)
	value, err := f.safeLoad(ctx)
	timer.Stop()

	switch {
	case ctx.Err() != nil:
		f.settle(Failed, *new(T), ErrCanceled)
	case err != nil:
		f.settle(Failed, *new(T), fmt.Errorf("%w: %s: %w", ErrLoadFailed, f.name, err))
	default:
		f.settle(Ready, value, nil)
	}
}

func (f *Future[T]) safeLoad(ctx context.Context) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if f.load == nil {
		return value, errors.New("no loader")
	}
	return f.load(ctx)
}

func (f *Future[T]) settle(state State, value T, err error) {
	f.mu.Lock()
	if f.state != Pending {
		f.mu.Unlock()
		return
	}
	f.state = state
	f.value = value
	f.err = err
	close(f.done)
	watchers := f.watchers
	f.watchers = nil
	cancel := f.cancel
	stop := f.stopWatch
	f.mu.Unlock()

	if stop != nil {
		stop()
	}
	if cancel != nil {
		cancel()
	}

	if err != nil && !errors.Is(err, ErrCanceled) {
		logging.LoaderError("%s failed: %v", f.name, err)
	} else {
		logging.Loader("%s settled: %s", f.name, state)
	}

	for _, w := range watchers {
		w(state)
	}
}

// Cancel tears down a pending acquisition; it settles as Failed with
// ErrCanceled and a loader still running has its result discarded.
// Settled futures are unaffected.
func (f *Future[T]) Cancel() {
	f.mu.Lock()
	if f.state != Pending {
		f.mu.Unlock()
		return
	}
	timer := f.timer
	f.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	f.settle(Failed, *new(T), ErrCanceled)
}

// State returns the current readiness.
func (f *Future[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Result returns the module, its error and readiness.
func (f *Future[T]) Result() (T, error, State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err, f.state
}

// Done is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		value, err, _ := f.Result()
		return value, err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnSettle registers fn to run once with the final state. If the future has
// already settled fn runs immediately.
func (f *Future[T]) OnSettle(fn func(State)) {
	f.mu.Lock()
	if f.state != Pending {
		state := f.state
		f.mu.Unlock()
		fn(state)
		return
	}
	f.watchers = append(f.watchers, fn)
	f.mu.Unlock()
}
