package timeline

import (
	"strings"
	"sync"

	"supportchat/internal/clock"
	"supportchat/internal/logging"
)

// Listener receives the full timeline after every successful append.
// Listeners run synchronously inside Append and must not call Append.
type Listener func(messages []Message)

// Store is the message log of one conversation. It is owned by a chat
// session and discarded with it.
type Store struct {
	clk   clock.Clock
	newID IDFunc

	// dispatchMu serializes append+notify so observers see appends in order.
	dispatchMu sync.Mutex

	mu        sync.RWMutex
	messages  []Message
	listeners map[uint64]Listener
	nextSub   uint64
}

type options struct {
	newID IDFunc
	seed  []Seed
}

// Option configures a Store.
type Option func(*options)

// WithIDs overrides the identifier generator (default UUIDs).
func WithIDs(fn IDFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithSeed preloads fixture history. Seeded messages do not notify.
func WithSeed(seed []Seed) Option {
	return func(o *options) {
		o.seed = append(o.seed, seed...)
	}
}

// NewStore creates a store reading time from clk.
func NewStore(clk clock.Clock, opts ...Option) *Store {
	o := options{newID: UUIDs()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{
		clk:       clk,
		newID:     o.newID,
		listeners: make(map[uint64]Listener),
	}

	now := clk.Now()
	for _, e := range o.seed {
		text := strings.TrimSpace(e.Text)
		if text == "" || !e.Sender.Valid() {
			continue
		}
		s.messages = append(s.messages, Message{
			ID:        s.newID(),
			Text:      text,
			Sender:    e.Sender,
			Timestamp: now.Add(-e.Age),
		})
	}
	return s
}

// Append adds a message to the tail of the timeline. Text is trimmed of
// surrounding whitespace; blank text or an unknown sender is rejected and
// returns false without notifying anyone.
func (s *Store) Append(text string, sender Sender) (Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" || !sender.Valid() {
		return Message{}, false
	}

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	msg := Message{
		ID:        s.newID(),
		Text:      text,
		Sender:    sender,
		Timestamp: s.clk.Now(),
	}
	s.messages = append(s.messages, msg)
	snapshot := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for id := uint64(1); id <= s.nextSub; id++ {
		if l, ok := s.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	logging.TimelineDebug("append %s from %s (len=%d)", msg.ID, sender, len(snapshot))

	for _, l := range listeners {
		l(snapshot)
	}
	return msg, true
}

// Current returns a copy of the timeline in append order.
func (s *Store) Current() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the newest message, if any.
func (s *Store) Last() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Subscribe registers l for every future append. Listeners are called in
// subscription order. The returned func removes the subscription.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextSub++
	id := s.nextSub
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) snapshotLocked() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}
