// Package scroll keeps a scrollable view pinned to the newest timeline entry.
package scroll

import (
	"sync"
	"sync/atomic"

	"supportchat/internal/timeline"
)

// Target is a scrollable region that can bring a message into view.
type Target interface {
	ScrollToNewest(newest timeline.Message)
}

// TargetFunc adapts a function to Target.
type TargetFunc func(newest timeline.Message)

// ScrollToNewest calls f.
func (f TargetFunc) ScrollToNewest(newest timeline.Message) { f(newest) }

// Sync requests a scroll to the tail on every timeline change. It holds no
// state beyond the currently mounted target; with nothing mounted it does
// nothing.
type Sync struct {
	mu       sync.RWMutex
	target   Target
	requests atomic.Uint64
}

// New returns a Sync with no target mounted.
func New() *Sync {
	return &Sync{}
}

// Mount sets the scroll target.
func (s *Sync) Mount(t Target) {
	s.mu.Lock()
	s.target = t
	s.mu.Unlock()
}

// Unmount clears the scroll target.
func (s *Sync) Unmount() {
	s.Mount(nil)
}

// Observe is a timeline.Listener.
func (s *Sync) Observe(messages []timeline.Message) {
	if len(messages) == 0 {
		return
	}
	s.mu.RLock()
	t := s.target
	s.mu.RUnlock()
	if t == nil {
		return
	}
	s.requests.Add(1)
	t.ScrollToNewest(messages[len(messages)-1])
}

// Attach subscribes s to store and returns the unsubscribe func.
func (s *Sync) Attach(store *timeline.Store) (detach func()) {
	return store.Subscribe(s.Observe)
}

// Requests reports how many scroll requests reached a mounted target.
func (s *Sync) Requests() uint64 {
	return s.requests.Load()
}
