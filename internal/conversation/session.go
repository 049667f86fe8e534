// Package conversation wires one chat mount together: a timeline store, the
// reply simulator answering the local user, and the scroll sync observing
// the store. A Session lives exactly as long as the conversation view is
// mounted.
package conversation

import (
	"context"
	"sync"
	"time"

	"supportchat/internal/clock"
	"supportchat/internal/logging"
	"supportchat/internal/reply"
	"supportchat/internal/scroll"
	"supportchat/internal/timeline"
)

// Options configures a session. Zero values select the defaults of the
// underlying packages; a nil ReplyDelay means reply.DefaultDelay, while a
// pointer to zero answers immediately.
type Options struct {
	ReplyDelay *time.Duration
	ReplyText  string
	Seed       []timeline.Seed
	IDs        timeline.IDFunc
}

// Session is a single live conversation.
type Session struct {
	store  *timeline.Store
	sim    *reply.Simulator
	scroll *scroll.Sync

	detach    func()
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Start builds a session. Cancelling ctx has the same effect as Close on the
// pending replies.
func Start(ctx context.Context, clk clock.Clock, opts Options) *Session {
	var storeOpts []timeline.Option
	if opts.IDs != nil {
		storeOpts = append(storeOpts, timeline.WithIDs(opts.IDs))
	}
	if len(opts.Seed) > 0 {
		storeOpts = append(storeOpts, timeline.WithSeed(opts.Seed))
	}
	store := timeline.NewStore(clk, storeOpts...)

	simOpts := []reply.Option{reply.WithText(opts.ReplyText)}
	if opts.ReplyDelay != nil {
		simOpts = append(simOpts, reply.WithDelay(*opts.ReplyDelay))
	}

	sessCtx, cancel := context.WithCancel(ctx)
	s := &Session{
		store:  store,
		sim:    reply.New(sessCtx, clk, store, simOpts...),
		scroll: scroll.New(),
		cancel: cancel,
	}
	s.detach = s.scroll.Attach(store)

	logging.Session("session started with %d seeded messages", store.Len())
	return s
}

// Send appends text as the local user and schedules the counterpart's
// answer. Blank text is ignored.
func (s *Session) Send(text string) (timeline.Message, bool) {
	msg, ok := s.store.Append(text, timeline.SenderSelf)
	if !ok {
		logging.SessionDebug("send ignored: blank input")
		return timeline.Message{}, false
	}
	s.sim.OnUserMessageSent(msg)
	return msg, true
}

// Delay returns a pointer to d for Options.ReplyDelay.
func Delay(d time.Duration) *time.Duration {
	return &d
}

// Store returns the session's timeline.
func (s *Session) Store() *timeline.Store { return s.store }

// Scroll returns the scroll observer attached to the timeline.
func (s *Session) Scroll() *scroll.Sync { return s.scroll }

// Simulator returns the reply simulator.
func (s *Session) Simulator() *reply.Simulator { return s.sim }

// Close cancels pending replies and detaches the scroll observer. Safe to
// call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.sim.Close()
		s.cancel()
		s.detach()
		s.scroll.Unmount()
		logging.Session("session closed with %d messages", s.store.Len())
	})
}
