package route

import (
	"context"
	"errors"
	"sync"
	"time"

	"supportchat/internal/clock"
	"supportchat/internal/lazy"
	"supportchat/internal/logging"

	"golang.org/x/sync/errgroup"
)

// State is the composer's view of the current navigation.
type State int

const (
	StateUnresolved State = iota
	StateAuth
	StateChatPending
	StateChatReady
	StateChatFailed
	// StateNotFound exists for completeness; the catch-all redirect means no
	// path ever reaches it.
	StateNotFound
)

// String returns the display name for each state
func (s State) String() string {
	names := []string{"unresolved", "auth", "chat-pending", "chat-ready", "chat-failed", "not-found"}
	if int(s) >= 0 && int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// Module names used for logging and failure messages.
const (
	ModuleShell = "workspace"
	ModulePage  = "chat-page"
)

// DefaultShellDelay throttles the workspace shell so the loading placeholder
// is observable.
const DefaultShellDelay = 1500 * time.Millisecond

// Modules describes how the chat area's two deferred modules are acquired.
type Modules[S, P any] struct {
	Shell      lazy.Loader[S]
	ShellDelay time.Duration
	Page       lazy.Loader[P]
	PageDelay  time.Duration
}

// Snapshot is an immutable view of the composer.
type Snapshot struct {
	Resolution Resolution
	State      State
	Shell      lazy.State
	Page       lazy.State
	Err        error // first acquisition failure while in StateChatFailed
	// Seq grows with every navigation and every module settle. A higher Seq
	// describes a later state.
	Seq uint64
}

// Composer resolves navigations and, for the chat area, drives acquisition of
// the workspace shell (S) and the page content (P). Each module suspends and
// settles independently; the chat area is ready once both are.
type Composer[S, P any] struct {
	clk  clock.Clock
	mods Modules[S, P]
	ctx  context.Context
	stop context.CancelFunc

	mu        sync.Mutex
	current   Resolution
	shell     *lazy.Future[S]
	page      *lazy.Future[P]
	history   []string
	listeners map[uint64]func(Snapshot)
	nextSub   uint64
	closed    bool
	version   uint64

	// notifyMu orders deliveries; published is the highest Seq delivered.
	notifyMu  sync.Mutex
	published uint64
}

// NewComposer creates a composer in StateUnresolved. Module loads are bound to
// ctx and to Close.
func NewComposer[S, P any](ctx context.Context, clk clock.Clock, mods Modules[S, P]) *Composer[S, P] {
	cctx, stop := context.WithCancel(ctx)
	return &Composer[S, P]{
		clk:       clk,
		mods:      mods,
		ctx:       cctx,
		stop:      stop,
		listeners: make(map[uint64]func(Snapshot)),
	}
}

// Navigate resolves p and makes it current. Entering the chat area starts any
// module acquisition not already ready (failed ones are retried); leaving it
// cancels acquisitions still pending. Ready modules stay cached.
func (c *Composer[S, P]) Navigate(p string) Snapshot {
	res := Resolve(p)
	if res.Redirected {
		logging.Routing("redirect %q -> %s", p, res.Path)
	} else {
		logging.RoutingDebug("navigate %q -> %s", p, res.Path)
	}

	var (
		startShell *lazy.Future[S]
		startPage  *lazy.Future[P]
		dropShell  *lazy.Future[S]
		dropPage   *lazy.Future[P]
	)

	c.mu.Lock()
	if c.closed {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.current = res
	c.history = append(c.history, res.Path)
	c.version++

	if res.Area == AreaChat {
		if c.shell == nil || c.shell.State() == lazy.Failed {
			c.shell = lazy.NewFuture(ModuleShell, c.clk, c.mods.ShellDelay, c.mods.Shell)
			startShell = c.shell
		}
		if c.page == nil || c.page.State() == lazy.Failed {
			c.page = lazy.NewFuture(ModulePage, c.clk, c.mods.PageDelay, c.mods.Page)
			startPage = c.page
		}
	} else {
		if c.shell != nil && c.shell.State() != lazy.Ready {
			dropShell, c.shell = c.shell, nil
		}
		if c.page != nil && c.page.State() != lazy.Ready {
			dropPage, c.page = c.page, nil
		}
	}
	c.mu.Unlock()

	// Futures are started and cancelled outside the lock because a settle on
	// a virtual clock calls straight back into onSettle.
	if dropShell != nil {
		dropShell.Cancel()
	}
	if dropPage != nil {
		dropPage.Cancel()
	}
	if startShell != nil {
		startShell.OnSettle(func(lazy.State) {
			c.onSettle(ModuleShell, func() bool { return c.shell == startShell })
		})
		startShell.Start(c.ctx)
	}
	if startPage != nil {
		startPage.OnSettle(func(lazy.State) {
			c.onSettle(ModulePage, func() bool { return c.page == startPage })
		})
		startPage.Start(c.ctx)
	}

	snap := c.Snapshot()
	logging.Routing("state %s at %s", snap.State, snap.Resolution.Path)
	c.notify(snap)
	return snap
}

// onSettle publishes a snapshot if the settled future still belongs to the
// current chat navigation. owns is evaluated under the lock.
func (c *Composer[S, P]) onSettle(name string, owns func() bool) {
	c.mu.Lock()
	current := c.current.Area == AreaChat && !c.closed && owns()
	if current {
		c.version++
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if !current {
		return
	}
	logging.Get(logging.CategoryRouting).StructuredLog("info", "module settled", map[string]interface{}{
		"module": name,
		"state":  snap.State.String(),
		"path":   snap.Resolution.Path,
	})
	c.notify(snap)
}

// Snapshot returns the current state.
func (c *Composer[S, P]) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Composer[S, P]) snapshotLocked() Snapshot {
	snap := Snapshot{Resolution: c.current, Shell: lazy.Pending, Page: lazy.Pending, Seq: c.version}

	var shellErr, pageErr error
	if c.shell != nil {
		_, shellErr, snap.Shell = c.shell.Result()
	}
	if c.page != nil {
		_, pageErr, snap.Page = c.page.Result()
	}

	switch c.current.Area {
	case AreaAuth:
		snap.State = StateAuth
	case AreaChat:
		switch {
		case snap.Shell == lazy.Failed:
			snap.State, snap.Err = StateChatFailed, shellErr
		case snap.Page == lazy.Failed:
			snap.State, snap.Err = StateChatFailed, pageErr
		case snap.Shell == lazy.Ready && snap.Page == lazy.Ready:
			snap.State = StateChatReady
		default:
			snap.State = StateChatPending
		}
	default:
		snap.State = StateUnresolved
	}
	return snap
}

// Shell returns the workspace shell module and its readiness.
func (c *Composer[S, P]) Shell() (S, lazy.State) {
	c.mu.Lock()
	f := c.shell
	c.mu.Unlock()
	if f == nil {
		var zero S
		return zero, lazy.Pending
	}
	v, _, st := f.Result()
	return v, st
}

// Page returns the page module and its readiness.
func (c *Composer[S, P]) Page() (P, lazy.State) {
	c.mu.Lock()
	f := c.page
	c.mu.Unlock()
	if f == nil {
		var zero P
		return zero, lazy.Pending
	}
	v, _, st := f.Result()
	return v, st
}

// ShellFuture exposes the shell acquisition for suspend boundaries.
func (c *Composer[S, P]) ShellFuture() *lazy.Future[S] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shell
}

// PageFuture exposes the page acquisition for suspend boundaries.
func (c *Composer[S, P]) PageFuture() *lazy.Future[P] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Wait blocks until both chat modules are ready, returning the first
// acquisition error. It fails immediately outside the chat area.
func (c *Composer[S, P]) Wait(ctx context.Context) error {
	c.mu.Lock()
	shell, page, area := c.shell, c.page, c.current.Area
	c.mu.Unlock()

	if area != AreaChat || shell == nil || page == nil {
		return errors.New("chat area is not active")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := shell.Wait(gctx)
		return err
	})
	g.Go(func() error {
		_, err := page.Wait(gctx)
		return err
	})
	return g.Wait()
}

// OnChange registers fn for every state change. It returns the unsubscribe func.
// Deliveries are serialized and never go backwards: a snapshot older than one
// already delivered is dropped, so a module settling on a timer goroutine
// cannot be followed by the stale snapshot of the navigation that started it.
// fn must not call back into the composer.
func (c *Composer[S, P]) OnChange(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	c.nextSub++
	id := c.nextSub
	c.listeners[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Composer[S, P]) notify(snap Snapshot) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if snap.Seq < c.published {
		logging.RoutingDebug("dropped stale snapshot %d (delivered %d)", snap.Seq, c.published)
		return
	}
	c.published = snap.Seq

	c.mu.Lock()
	fns := make([]func(Snapshot), 0, len(c.listeners))
	for id := uint64(1); id <= c.nextSub; id++ {
		if fn, ok := c.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// History returns every final path navigated to, oldest first.
func (c *Composer[S, P]) History() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

// Close tears the composer down, cancelling in-flight module loads.
func (c *Composer[S, P]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	shell, page := c.shell, c.page
	c.listeners = make(map[uint64]func(Snapshot))
	c.mu.Unlock()

	if shell != nil {
		shell.Cancel()
	}
	if page != nil {
		page.Cancel()
	}
	c.stop()
	logging.Routing("composer closed")
}
