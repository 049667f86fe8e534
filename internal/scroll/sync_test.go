package scroll

import (
	"testing"
	"time"

	"supportchat/internal/clock"
	"supportchat/internal/timeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() *timeline.Store {
	return timeline.NewStore(clock.NewFake(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSync_ScrollsToNewestOnEveryAppend(t *testing.T) {
	store := newStore()
	s := New()
	var seen []string
	s.Mount(TargetFunc(func(m timeline.Message) { seen = append(seen, m.Text) }))
	detach := s.Attach(store)
	defer detach()

	store.Append("a", timeline.SenderSelf)
	store.Append("b", timeline.SenderCounterpart)

	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, uint64(2), s.Requests())
}

func TestSync_NoTargetIsNoop(t *testing.T) {
	store := newStore()
	s := New()
	s.Attach(store)

	assert.NotPanics(t, func() {
		store.Append("before mount", timeline.SenderSelf)
	})
	assert.Zero(t, s.Requests())
}

func TestSync_UnmountStopsRequests(t *testing.T) {
	store := newStore()
	s := New()
	calls := 0
	s.Mount(TargetFunc(func(timeline.Message) { calls++ }))
	s.Attach(store)

	store.Append("one", timeline.SenderSelf)
	s.Unmount()
	store.Append("two", timeline.SenderSelf)

	assert.Equal(t, 1, calls)
}

func TestSync_DetachStopsObserving(t *testing.T) {
	store := newStore()
	s := New()
	calls := 0
	s.Mount(TargetFunc(func(timeline.Message) { calls++ }))
	detach := s.Attach(store)

	detach()
	store.Append("ignored", timeline.SenderSelf)
	assert.Zero(t, calls)
}

func TestSync_EmptySequence(t *testing.T) {
	s := New()
	called := false
	s.Mount(TargetFunc(func(timeline.Message) { called = true }))
	s.Observe(nil)
	assert.False(t, called)
}

func TestSync_SeesMonotonicTail(t *testing.T) {
	store := newStore()
	s := New()
	var ids []string
	s.Mount(TargetFunc(func(m timeline.Message) { ids = append(ids, m.ID) }))
	s.Attach(store)

	for i := 0; i < 10; i++ {
		store.Append("x", timeline.SenderSelf)
	}
	msgs := store.Current()
	require.Len(t, ids, len(msgs))
	for i, m := range msgs {
		assert.Equal(t, m.ID, ids[i])
	}
}
