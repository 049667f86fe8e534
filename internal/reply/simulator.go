// Package reply simulates the support agent: every message the local user
// sends is answered by one canned counterpart message after a fixed delay.
package reply

import (
	"context"
	"sync"
	"time"

	"supportchat/internal/clock"
	"supportchat/internal/logging"
	"supportchat/internal/timeline"
)

const (
	// DefaultDelay is how long the counterpart takes to answer.
	DefaultDelay = time.Second
	// DefaultText is the canned answer.
	DefaultText = "Thanks for your message. I'll get back to you soon."
)

// Appender is the slice of the timeline store the simulator writes to.
type Appender interface {
	Append(text string, sender timeline.Sender) (timeline.Message, bool)
}

// Simulator schedules one deferred counterpart reply per user message.
// Pending replies are bound to the simulator's lifetime: Close, or
// cancellation of the context passed to New, drops all of them.
type Simulator struct {
	clk   clock.Clock
	store Appender

	mu      sync.Mutex
	delay   time.Duration
	text    string
	pending map[uint64]clock.Timer
	nextID  uint64
	closed  bool

	stopWatch func() bool
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithDelay sets the reply delay. Negative values are treated as zero.
func WithDelay(d time.Duration) Option {
	return func(s *Simulator) {
		if d < 0 {
			d = 0
		}
		s.delay = d
	}
}

// WithText sets the canned reply. Blank text keeps the default.
func WithText(text string) Option {
	return func(s *Simulator) {
		if text != "" {
			s.text = text
		}
	}
}

// New creates a simulator writing into store. The simulator closes itself
// when ctx is done.
func New(ctx context.Context, clk clock.Clock, store Appender, opts ...Option) *Simulator {
	s := &Simulator{
		clk:     clk,
		store:   store,
		delay:   DefaultDelay,
		text:    DefaultText,
		pending: make(map[uint64]clock.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stopWatch = context.AfterFunc(ctx, s.Close)
	return s
}

// OnUserMessageSent schedules the reply to msg. Messages not authored by the
// local user never trigger a reply. It reports whether a reply was scheduled.
func (s *Simulator) OnUserMessageSent(msg timeline.Message) bool {
	if !msg.FromSelf() {
		return false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.nextID++
	id := s.nextID
	s.pending[id] = nil
	delay, text := s.delay, s.text
	s.mu.Unlock()

	// Scheduling happens outside the lock: a zero delay on a virtual clock
	// fires synchronously and re-enters fire.
	timer := s.clk.AfterFunc(delay, func() { s.fire(id, text) })

	s.mu.Lock()
	if _, stillPending := s.pending[id]; stillPending {
		s.pending[id] = timer
	} else {
		// Already delivered, or Close ran while we were scheduling.
		timer.Stop()
	}
	s.mu.Unlock()

	logging.ReplyDebug("reply %d scheduled for %s in %v", id, msg.ID, delay)
	return true
}

// fire appends the reply unless the simulator was closed or the entry was
// dropped. The lock is held across Append so that no reply can land after
// Close has returned.
func (s *Simulator) fire(id uint64, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if _, ok := s.pending[id]; !ok {
		return
	}
	delete(s.pending, id)

	if msg, ok := s.store.Append(text, timeline.SenderCounterpart); ok {
		logging.Reply("reply %d delivered as %s", id, msg.ID)
	}
}

// Pending reports how many replies are scheduled and not yet delivered.
func (s *Simulator) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Reconfigure changes delay and text for replies scheduled from now on.
func (s *Simulator) Reconfigure(delay time.Duration, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if delay >= 0 {
		s.delay = delay
	}
	if text != "" {
		s.text = text
	}
}

// Close cancels every pending reply. Safe to call multiple times.
func (s *Simulator) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	dropped := len(s.pending)
	for id, timer := range s.pending {
		if timer != nil {
			timer.Stop()
		}
		delete(s.pending, id)
	}
	stop := s.stopWatch
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	if dropped > 0 {
		logging.Reply("simulator closed, %d pending replies cancelled", dropped)
	}
}
