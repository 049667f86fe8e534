// Package chat provides test utilities for TUI testing.
package chat

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"supportchat/internal/clock"
	"supportchat/internal/config"
	"supportchat/internal/route"
)

var epoch = time.Date(2024, 3, 14, 9, 26, 0, 0, time.UTC)

// TestModelOption customizes NewTestModel.
type TestModelOption func(*Options)

// withConfig mutates the test config.
func withConfig(fn func(*config.Config)) TestModelOption {
	return func(o *Options) { fn(o.Config) }
}

// withPageHook injects a page loader hook.
func withPageHook(hook func() error) TestModelOption {
	return func(o *Options) {
		o.pageHook = func(context.Context) error { return hook() }
	}
}

// NewTestModel builds a model on a virtual clock with a deterministic theme,
// plain markdown and a 120x40 window.
func NewTestModel(t *testing.T, opts ...TestModelOption) (Model, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(epoch)

	cfg := config.DefaultConfig()
	cfg.UI.Theme = "light"
	cfg.Chat.IDScheme = "sequence"
	cfg.Chat.SeedDemo = false

	o := Options{Config: cfg, Clock: clk, MarkdownStyle: "notty"}
	for _, opt := range opts {
		opt(&o)
	}

	m := New(o)
	t.Cleanup(func() { m.Shutdown() })

	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, clk
}

// update runs one message through Update. Returned commands are dropped.
func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// drain feeds every queued background event back into the model.
func drain(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 1000; i++ {
		select {
		case msg := <-m.events:
			m = update(t, m, msg)
		default:
			return m
		}
	}
	t.Fatal("event queue did not settle")
	return m
}

// advance moves the virtual clock and applies the resulting events.
func advance(t *testing.T, m Model, clk *clock.Fake, d time.Duration) Model {
	t.Helper()
	clk.Advance(d)
	return drain(t, m)
}

// openChat navigates to the chat area and waits out the shell delay.
func openChat(t *testing.T, m Model, clk *clock.Fake) Model {
	t.Helper()
	m = drain(t, update(t, m, Navigate(route.PathChat)))
	m = advance(t, m, clk, m.cfg.Load().GetShellDelay())
	if m.snap.State != route.StateChatReady {
		t.Fatalf("expected chat-ready, got %s", m.snap.State)
	}
	return m
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeAndSend types text and presses enter.
func typeAndSend(t *testing.T, m Model, text string) Model {
	t.Helper()
	m = update(t, m, runes(text))
	return drain(t, update(t, m, key(tea.KeyEnter)))
}

// plainView renders the view without ANSI styling.
func plainView(m Model) string {
	return ansi.Strip(m.View())
}
