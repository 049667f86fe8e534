// Package chat is the interactive supportchat terminal client. It routes
// between the auth placeholder and the chat area, shows the lazily loaded
// workspace shell and conversation page behind suspend boundaries, and hosts
// the single live conversation while the chat page is mounted.
package chat

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"supportchat/cmd/supportchat/ui"
	"supportchat/internal/clock"
	"supportchat/internal/config"
	"supportchat/internal/conversation"
	"supportchat/internal/route"
)

// Options configures a Model.
type Options struct {
	Config *config.Config

	// Clock drives loader delays, reply timers and resize debouncing.
	// Defaults to the wall clock.
	Clock clock.Clock

	// Context bounds every background operation. Defaults to Background.
	Context context.Context

	// InitialPath overrides the configured initial path.
	InitialPath string

	// MarkdownStyle forces a glamour style ("dark", "light", "notty").
	// Empty follows the theme.
	MarkdownStyle string

	// pageHook runs inside the page loader before the page is built.
	pageHook func(ctx context.Context) error
}

// Model is the bubbletea model for the whole application.
type Model struct {
	cfg *atomic.Pointer[config.Config]
	clk clock.Clock

	composer *route.Composer[*Workspace, *Page]
	snap     route.Snapshot

	// Live conversation, present exactly while the chat page is mounted.
	session *conversation.Session
	unwatch func()

	// UI Components
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   ui.Styles
	resize   *ui.ResizeDebouncer

	markdownStyle string // forced style, empty = follow theme
	initialPath   string

	width    int
	height   int
	ready    bool
	status   string
	quitting bool

	// Background signals (route changes, timeline changes, scroll requests,
	// settled resizes) are funnelled through events and read by waitForEvent.
	events chan tea.Msg

	// Shutdown coordination
	shutdownOnce   *sync.Once
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// =============================================================================
// MESSAGES
// =============================================================================

// navigateMsg asks the model to go to a path.
type navigateMsg struct{ path string }

// routeChangedMsg signals that the composer published a new state.
type routeChangedMsg struct{ snap route.Snapshot }

// timelineChangedMsg signals an append to the live conversation.
type timelineChangedMsg struct{ count int }

// scrollRequestMsg asks the viewport to bring the newest message into view.
type scrollRequestMsg struct{ id string }

// resizeSettledMsg carries the final size of a burst of resizes.
type resizeSettledMsg struct{ width, height int }

// ConfigReloadedMsg delivers a reloaded configuration to a running program.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// Navigate returns a message that sends the program to path.
func Navigate(path string) tea.Msg {
	return navigateMsg{path: path}
}
