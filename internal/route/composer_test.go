package route

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"supportchat/internal/clock"
	"supportchat/internal/lazy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type shell struct{ name string }
type page struct{ name string }

type harness struct {
	clk        *clock.Fake
	c          *Composer[*shell, *page]
	shellLoads int
	pageLoads  int
	shellErr   error
	pageErr    error

	mu    sync.Mutex
	snaps []Snapshot
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{clk: clock.NewFake(epoch)}
	h.c = NewComposer(context.Background(), h.clk, Modules[*shell, *page]{
		Shell: func(context.Context) (*shell, error) {
			h.shellLoads++
			if h.shellErr != nil {
				return nil, h.shellErr
			}
			return &shell{name: "workspace"}, nil
		},
		ShellDelay: DefaultShellDelay,
		Page: func(context.Context) (*page, error) {
			h.pageLoads++
			if h.pageErr != nil {
				return nil, h.pageErr
			}
			return &page{name: "chat"}, nil
		},
	})
	h.c.OnChange(func(s Snapshot) {
		h.mu.Lock()
		h.snaps = append(h.snaps, s)
		h.mu.Unlock()
	})
	t.Cleanup(h.c.Close)
	return h
}

func (h *harness) states() []State {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]State, len(h.snaps))
	for i, s := range h.snaps {
		out[i] = s.State
	}
	return out
}

func TestComposer_InitialStateUnresolved(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, StateUnresolved, h.c.Snapshot().State)
}

func TestComposer_AuthPaths(t *testing.T) {
	h := newHarness(t)

	for _, p := range []string{"/", "/unknown/path", "/auth"} {
		snap := h.c.Navigate(p)
		assert.Equal(t, StateAuth, snap.State, p)
		assert.Equal(t, AuthPageIndex, snap.Resolution.AuthPage, p)
		assert.Equal(t, PathAuth, snap.Resolution.Path, p)
	}

	snap := h.c.Navigate("/auth/register")
	assert.Equal(t, StateAuth, snap.State)
	assert.Equal(t, AuthPageRegister, snap.Resolution.AuthPage)
	assert.Zero(t, h.shellLoads+h.pageLoads, "auth area never acquires chat modules")
}

func TestComposer_ChatPendingThenReady(t *testing.T) {
	h := newHarness(t)

	snap := h.c.Navigate("/chat")
	assert.Equal(t, StateChatPending, snap.State)
	assert.Equal(t, lazy.Pending, snap.Shell)
	assert.Equal(t, lazy.Ready, snap.Page, "page module loads without artificial delay")

	page, st := h.c.Page()
	require.Equal(t, lazy.Ready, st)
	assert.Equal(t, "chat", page.name)

	h.clk.Advance(DefaultShellDelay - time.Millisecond)
	assert.Equal(t, StateChatPending, h.c.Snapshot().State)

	h.clk.Advance(time.Millisecond)
	snap = h.c.Snapshot()
	assert.Equal(t, StateChatReady, snap.State)
	shell, st := h.c.Shell()
	require.Equal(t, lazy.Ready, st)
	assert.Equal(t, "workspace", shell.name)

	states := h.states()
	require.NotEmpty(t, states)
	assert.Equal(t, StateChatReady, states[len(states)-1])
	assert.Contains(t, states, StateChatPending)
}

func TestComposer_ModulesCachedAcrossNavigations(t *testing.T) {
	h := newHarness(t)
	h.c.Navigate("/chat")
	h.clk.Advance(DefaultShellDelay)
	require.Equal(t, StateChatReady, h.c.Snapshot().State)

	h.c.Navigate("/auth")
	snap := h.c.Navigate("/chat")
	assert.Equal(t, StateChatReady, snap.State, "ready modules are reused")
	assert.Equal(t, 1, h.shellLoads)
	assert.Equal(t, 1, h.pageLoads)
}

func TestComposer_LeavingChatCancelsPendingLoad(t *testing.T) {
	h := newHarness(t)
	h.c.Navigate("/chat")
	shellFuture := h.c.ShellFuture()
	require.NotNil(t, shellFuture)

	h.c.Navigate("/auth")
	assert.Equal(t, lazy.Failed, shellFuture.State())
	_, err, _ := shellFuture.Result()
	assert.ErrorIs(t, err, lazy.ErrCanceled)

	h.clk.Advance(time.Minute)
	assert.Zero(t, h.shellLoads, "cancelled shell must never load")
	assert.Equal(t, StateAuth, h.c.Snapshot().State)

	h.mu.Lock()
	last := h.snaps[len(h.snaps)-1]
	h.mu.Unlock()
	assert.Equal(t, StateAuth, last.State, "stale settle must not publish a chat state")
}

func TestComposer_LoadFailureIsVisible(t *testing.T) {
	h := newHarness(t)
	h.pageErr = errors.New("bundle missing")

	snap := h.c.Navigate("/chat")
	assert.Equal(t, StateChatFailed, snap.State)
	assert.ErrorIs(t, snap.Err, lazy.ErrLoadFailed)
	assert.Contains(t, snap.Err.Error(), "bundle missing")

	h.clk.Advance(DefaultShellDelay)
	assert.Equal(t, StateChatFailed, h.c.Snapshot().State, "failure is sticky until the next navigation")
}

func TestComposer_RetryAfterFailure(t *testing.T) {
	h := newHarness(t)
	h.shellErr = errors.New("flaky")
	h.c.Navigate("/chat")
	h.clk.Advance(DefaultShellDelay)
	require.Equal(t, StateChatFailed, h.c.Snapshot().State)

	h.shellErr = nil
	snap := h.c.Navigate("/chat")
	assert.Equal(t, StateChatPending, snap.State)
	assert.Equal(t, 1, h.pageLoads, "ready page is not reloaded")

	h.clk.Advance(DefaultShellDelay)
	assert.Equal(t, StateChatReady, h.c.Snapshot().State)
	assert.Equal(t, 2, h.shellLoads)
}

func TestComposer_WaitBothModules(t *testing.T) {
	h := newHarness(t)
	h.c.Navigate("/chat")

	done := make(chan error, 1)
	go func() { done <- h.c.Wait(context.Background()) }()

	select {
	case <-done:
		t.Fatal("Wait returned before the shell settled")
	case <-time.After(20 * time.Millisecond):
	}

	h.clk.Advance(DefaultShellDelay)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return")
	}
}

func TestComposer_WaitReportsFailure(t *testing.T) {
	h := newHarness(t)
	h.shellErr = errors.New("nope")
	h.c.Navigate("/chat")
	h.clk.Advance(DefaultShellDelay)

	err := h.c.Wait(context.Background())
	assert.ErrorIs(t, err, lazy.ErrLoadFailed)
}

func TestComposer_WaitOutsideChat(t *testing.T) {
	h := newHarness(t)
	h.c.Navigate("/auth")
	assert.Error(t, h.c.Wait(context.Background()))
}

func TestComposer_CloseCancelsInFlight(t *testing.T) {
	h := newHarness(t)
	h.c.Navigate("/chat")
	f := h.c.ShellFuture()

	h.c.Close()
	assert.Equal(t, lazy.Failed, f.State())
	h.clk.Advance(time.Minute)
	assert.Zero(t, h.shellLoads)

	snap := h.c.Navigate("/auth")
	assert.Equal(t, PathChat, snap.Resolution.Path, "closed composer ignores navigation")
}

func TestComposer_History(t *testing.T) {
	h := newHarness(t)
	h.c.Navigate("/")
	h.c.Navigate("/auth/register")
	h.c.Navigate("/nowhere")
	assert.Equal(t, []string{PathAuth, PathRegister, PathAuth}, h.c.History())
}

func TestComposer_Unsubscribe(t *testing.T) {
	h := newHarness(t)
	calls := 0
	unsub := h.c.OnChange(func(Snapshot) { calls++ })
	h.c.Navigate("/auth")
	unsub()
	h.c.Navigate("/auth/register")
	assert.Equal(t, 1, calls)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "chat-pending", StateChatPending.String())
	assert.Equal(t, "not-found", StateNotFound.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestComposer_SeqGrowsWithEveryChange(t *testing.T) {
	h := newHarness(t)

	auth := h.c.Navigate("/auth")
	pending := h.c.Navigate("/chat")
	assert.Greater(t, pending.Seq, auth.Seq)

	h.clk.Advance(DefaultShellDelay)
	ready := h.c.Snapshot()
	require.Equal(t, StateChatReady, ready.State)
	assert.Greater(t, ready.Seq, pending.Seq)
}

func TestComposer_StaleSnapshotIsNotDelivered(t *testing.T) {
	h := newHarness(t)
	pending := h.c.Navigate("/chat")
	h.clk.Advance(DefaultShellDelay)
	delivered := len(h.states())

	// The navigation publishing after the settle it triggered.
	h.c.notify(pending)

	states := h.states()
	assert.Len(t, states, delivered)
	assert.Equal(t, StateChatReady, states[len(states)-1])
}

func TestComposer_RealClockDeliveriesStayOrdered(t *testing.T) {
	for i := 0; i < 50; i++ {
		c := NewComposer(context.Background(), clock.Real(), Modules[*shell, *page]{
			Shell: func(context.Context) (*shell, error) { return &shell{}, nil },
			Page:  func(context.Context) (*page, error) { return &page{}, nil },
		})

		var (
			mu     sync.Mutex
			states []State
		)
		c.OnChange(func(s Snapshot) {
			mu.Lock()
			states = append(states, s.State)
			mu.Unlock()
		})

		c.Navigate("/chat")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		require.NoError(t, c.Wait(ctx))
		cancel()
		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(states) > 0 && states[len(states)-1] == StateChatReady
		}, time.Second, time.Millisecond)
		c.Close()

		mu.Lock()
		seenReady := false
		for _, st := range states {
			if st == StateChatReady {
				seenReady = true
			}
			assert.False(t, seenReady && st == StateChatPending, "pending delivered after ready: %v", states)
		}
		mu.Unlock()
	}
}
