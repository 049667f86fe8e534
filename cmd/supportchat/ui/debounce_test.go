package ui

import (
	"sync/atomic"
	"testing"
	"time"

	"supportchat/internal/clock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDebouncer_SingleCall(t *testing.T) {
	clk := clock.NewFake(epoch)
	var called int
	debouncer := NewDebouncer(clk, 50*time.Millisecond)

	debouncer.Debounce(func() { called++ })

	clk.Advance(49 * time.Millisecond)
	if called != 0 {
		t.Fatalf("fired early: %d calls", called)
	}
	clk.Advance(time.Millisecond)
	if called != 1 {
		t.Errorf("Expected 1 call, got %d", called)
	}
}

func TestDebouncer_RapidCalls(t *testing.T) {
	clk := clock.NewFake(epoch)
	var called, lastValue int
	debouncer := NewDebouncer(clk, 50*time.Millisecond)

	for i := 1; i <= 10; i++ {
		value := i
		debouncer.Debounce(func() {
			lastValue = value
			called++
		})
		clk.Advance(10 * time.Millisecond)
	}

	clk.Advance(100 * time.Millisecond)

	if called != 1 {
		t.Errorf("Expected 1 call for rapid succession, got %d", called)
	}
	if lastValue != 10 {
		t.Errorf("Expected last value 10, got %d", lastValue)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	clk := clock.NewFake(epoch)
	var called int
	debouncer := NewDebouncer(clk, 50*time.Millisecond)

	debouncer.Debounce(func() { called++ })
	clk.Advance(10 * time.Millisecond)
	debouncer.Cancel()
	clk.Advance(100 * time.Millisecond)

	if called != 0 {
		t.Errorf("Expected 0 calls after cancel, got %d", called)
	}
	if clk.Pending() != 0 {
		t.Errorf("Expected no pending timers, got %d", clk.Pending())
	}
}

func TestDebouncer_Immediate(t *testing.T) {
	clk := clock.NewFake(epoch)
	var called int
	debouncer := NewDebouncer(clk, 50*time.Millisecond)

	debouncer.Debounce(func() { called += 10 })
	debouncer.Immediate(func() { called++ })
	clk.Advance(time.Second)

	if called != 1 {
		t.Errorf("Expected only the immediate call, got %d", called)
	}
}

func TestResizeDebouncer_LastSizeWins(t *testing.T) {
	clk := clock.NewFake(epoch)
	rd := NewResizeDebouncer(clk, DefaultResizeDuration)

	var calls int
	var gotW, gotH int
	handler := func(w, h int) {
		calls++
		gotW, gotH = w, h
	}

	rd.Resize(80, 24, handler)
	rd.Resize(100, 30, handler)
	rd.Resize(120, 40, handler)
	clk.Advance(DefaultResizeDuration)

	if calls != 1 {
		t.Fatalf("Expected 1 resize, got %d", calls)
	}
	if gotW != 120 || gotH != 40 {
		t.Errorf("Expected 120x40, got %dx%d", gotW, gotH)
	}
	if w, h := rd.GetLastSize(); w != 120 || h != 40 {
		t.Errorf("GetLastSize = %dx%d", w, h)
	}
}

func TestResizeDebouncer_ResizeNow(t *testing.T) {
	clk := clock.NewFake(epoch)
	rd := NewResizeDebouncer(clk, DefaultResizeDuration)

	var sizes [][2]int
	record := func(w, h int) { sizes = append(sizes, [2]int{w, h}) }

	rd.Resize(80, 24, record)
	rd.ResizeNow(100, 30, record)
	clk.Advance(time.Second)

	if len(sizes) != 1 || sizes[0] != [2]int{100, 30} {
		t.Errorf("Expected one immediate 100x30 call, got %v", sizes)
	}
	if w, h := rd.GetLastSize(); w != 100 || h != 30 {
		t.Errorf("GetLastSize = %dx%d", w, h)
	}
}

func TestResizeDebouncer_Cancel(t *testing.T) {
	clk := clock.NewFake(epoch)
	rd := NewResizeDebouncer(clk, DefaultResizeDuration)

	var calls int
	rd.Resize(80, 24, func(int, int) { calls++ })
	rd.Cancel()
	clk.Advance(time.Second)

	if calls != 0 {
		t.Errorf("Expected no resize after cancel, got %d", calls)
	}
	if w, h := rd.GetLastSize(); w != 0 || h != 0 {
		t.Errorf("Expected zero last size, got %dx%d", w, h)
	}
}

func TestDebouncer_RealClock(t *testing.T) {
	var called int32
	debouncer := NewDebouncer(clock.Real(), 20*time.Millisecond)

	debouncer.Debounce(func() { atomic.AddInt32(&called, 1) })
	debouncer.Debounce(func() { atomic.AddInt32(&called, 1) })

	time.Sleep(100 * time.Millisecond)
	if n := atomic.LoadInt32(&called); n != 1 {
		t.Errorf("Expected 1 call, got %d", n)
	}
}
