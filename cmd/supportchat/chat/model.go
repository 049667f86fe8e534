package chat

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"supportchat/cmd/supportchat/ui"
	"supportchat/internal/clock"
	"supportchat/internal/config"
	"supportchat/internal/conversation"
	"supportchat/internal/lazy"
	"supportchat/internal/logging"
	"supportchat/internal/route"
	"supportchat/internal/scroll"
	"supportchat/internal/timeline"
)

const eventBuffer = 256

// New builds the application model. Nothing is loaded until the first
// navigation, which Init schedules.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	ref := &atomic.Pointer[config.Config]{}
	ref.Store(cfg)

	styles := ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))

	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = "› "
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	m := Model{
		cfg:            ref,
		clk:            clk,
		input:          ti,
		viewport:       viewport.New(80, 20),
		spinner:        sp,
		styles:         styles,
		resize:         ui.NewResizeDebouncer(clk, cfg.GetResizeDebounce()),
		markdownStyle:  opts.MarkdownStyle,
		initialPath:    opts.InitialPath,
		events:         make(chan tea.Msg, eventBuffer),
		shutdownOnce:   &sync.Once{},
		shutdownCtx:    ctx,
		shutdownCancel: cancel,
	}
	if m.initialPath == "" {
		m.initialPath = cfg.Routes.InitialPath
	}

	pageHook := opts.pageHook
	m.composer = route.NewComposer(ctx, clk, route.Modules[*Workspace, *Page]{
		Shell: func(ctx context.Context) (*Workspace, error) {
			return newWorkspace(ref.Load().Directory()), nil
		},
		ShellDelay: cfg.GetShellDelay(),
		Page: func(ctx context.Context) (*Page, error) {
			if pageHook != nil {
				if err := pageHook(ctx); err != nil {
					return nil, err
				}
			}
			c := ref.Load()
			return newPage(ctx, markdownStyleFor(opts.MarkdownStyle, c), c.GetTimeFormat(), minContentWidth)
		},
		PageDelay: cfg.GetPageDelay(),
	})

	events := m.events
	m.composer.OnChange(func(snap route.Snapshot) {
		post(ctx, events, routeChangedMsg{snap: snap})
	})

	m.snap = m.composer.Snapshot()
	return m
}

// markdownStyleFor picks the glamour style: forced, else derived from the theme.
func markdownStyleFor(forced string, cfg *config.Config) string {
	if forced != "" {
		return forced
	}
	if ui.ThemeByName(cfg.UI.Theme).IsDark {
		return "dark"
	}
	return "light"
}

// Init starts the cursor blink, the spinner, the event listener and the
// first navigation.
func (m Model) Init() tea.Cmd {
	initial := m.initialPath
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.waitForEvent(),
		func() tea.Msg { return navigateMsg{path: initial} },
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case navigateMsg:
		return m.navigate(msg.path), nil

	case routeChangedMsg:
		// The composer is authoritative; the carried snapshot may be stale.
		return m.applySnapshot(m.composer.Snapshot()), m.waitForEvent()

	case timelineChangedMsg:
		m.refreshConversation(false)
		return m, m.waitForEvent()

	case scrollRequestMsg:
		m.refreshConversation(true)
		return m, m.waitForEvent()

	case resizeSettledMsg:
		logging.UIDebug("resize settled at %dx%d", msg.width, msg.height)
		m.refreshConversation(false)
		return m, m.waitForEvent()

	case ConfigReloadedMsg:
		return m.applyConfig(msg.Config), nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// waitForEvent listens for the next background signal.
func (m Model) waitForEvent() tea.Cmd {
	events, ctx := m.events, m.shutdownCtx
	return func() tea.Msg {
		if ctx.Err() != nil {
			return nil
		}
		select {
		case msg := <-events:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

// post delivers msg without ever blocking the caller. Callers include store
// listeners and timer callbacks, which must not stall.
func post(ctx context.Context, events chan<- tea.Msg, msg tea.Msg) {
	if ctx.Err() != nil {
		return
	}
	select {
	case events <- msg:
	default:
		logging.UIDebug("event queue full, dropped %T", msg)
	}
}

// =============================================================================
// NAVIGATION AND SESSION LIFECYCLE
// =============================================================================

func (m Model) navigate(p string) Model {
	from := m.snap.Resolution.Path
	snap := m.composer.Navigate(p)
	logging.UI("navigate %q: %s -> %s (%s)", p, from, snap.Resolution.Path, snap.State)
	m.input.Reset()
	m.status = ""
	return m.applySnapshot(snap)
}

// applySnapshot adopts snap and mounts or unmounts the conversation to
// match it.
func (m Model) applySnapshot(snap route.Snapshot) Model {
	m.snap = snap
	mounted := snap.State == route.StateChatReady
	switch {
	case mounted && m.session == nil:
		m = m.openSession()
	case !mounted && m.session != nil:
		m = m.closeSession()
	}
	m.layout()
	return m
}

func (m Model) openSession() Model {
	cfg := m.cfg.Load()
	sess := conversation.Start(m.shutdownCtx, m.clk, cfg.SessionOptions())

	events, ctx := m.events, m.shutdownCtx
	sess.Scroll().Mount(scroll.TargetFunc(func(newest timeline.Message) {
		post(ctx, events, scrollRequestMsg{id: newest.ID})
	}))
	m.unwatch = sess.Store().Subscribe(func(msgs []timeline.Message) {
		post(ctx, events, timelineChangedMsg{count: len(msgs)})
	})
	m.session = sess
	m.input.Reset()
	m.input.Placeholder = "Type a message..."
	m.input.Focus()
	m.refreshConversation(true)
	return m
}

func (m Model) closeSession() Model {
	if m.unwatch != nil {
		m.unwatch()
		m.unwatch = nil
	}
	m.session.Close()
	m.session = nil
	m.viewport.SetContent("")
	return m
}

// Session returns the live conversation, or nil when the chat page is not
// mounted.
func (m Model) Session() *conversation.Session {
	return m.session
}

// Snapshot returns the route state the model last adopted.
func (m Model) Snapshot() route.Snapshot {
	return m.snap
}

// =============================================================================
// LAYOUT
// =============================================================================

// handleWindowSize lays out at once and debounces the expensive re-wrap. The
// first size is applied without waiting, and a size equal to the last applied
// one only drops whatever resize is still pending.
func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	first := !m.ready
	m.width, m.height = max(msg.Width, 0), max(msg.Height, 0)
	m.ready = true
	m.layout()

	events, ctx := m.events, m.shutdownCtx
	settle := func(w, h int) {
		post(ctx, events, resizeSettledMsg{width: w, height: h})
	}
	switch lw, lh := m.resize.GetLastSize(); {
	case first:
		m.resize.ResizeNow(m.width, m.height, settle)
	case lw == m.width && lh == m.height:
		m.resize.Cancel()
	default:
		m.resize.Resize(m.width, m.height, settle)
	}
	return m
}

const (
	headerHeight = 2 // text + border
	inputHeight  = 1
	footerHeight = 1
)

func (m Model) sidebarWidth() int {
	if m.width < 60 {
		return 0
	}
	if w := m.cfg.Load().UI.SidebarWidth; w > 0 {
		return min(w, m.width/2)
	}
	return min(max(m.width/4, 18), 32)
}

func (m Model) contentWidth() int {
	return max(m.width-m.sidebarWidth(), minContentWidth)
}

func (m *Model) layout() {
	if !m.ready {
		return
	}
	w := m.contentWidth()
	m.viewport.Width = w
	m.viewport.Height = max(m.height-headerHeight-inputHeight-footerHeight-1, 1)
	// Room for the prompt and the send affordance.
	m.input.Width = max(w-lipgloss.Width(m.input.Prompt)-12, 1)
}

// refreshConversation re-renders the timeline into the viewport. With
// toBottom it scrolls to the newest message.
func (m *Model) refreshConversation(toBottom bool) {
	if m.session == nil {
		return
	}
	if ws, st := m.composer.Shell(); ws != nil && st == lazy.Ready {
		latest, _ := m.session.Store().Last()
		ws.ShowLatest(latest.Text)
	}
	page, state := m.composer.Page()
	if page == nil || state != lazy.Ready {
		return
	}
	cfg := m.cfg.Load()
	if err := page.Configure(markdownStyleFor(m.markdownStyle, cfg), m.contentWidth()); err != nil {
		logging.UI("page reconfigure failed: %v", err)
	}
	m.viewport.SetContent(page.RenderTimeline(m.session.Store().Current(), m.styles))
	if toBottom {
		m.viewport.GotoBottom()
	}
}

// =============================================================================
// CONFIG
// =============================================================================

func (m Model) applyConfig(cfg *config.Config) Model {
	if cfg == nil {
		return m
	}
	if err := cfg.Validate(); err != nil {
		m.status = "config rejected: " + err.Error()
		logging.UI("config rejected: %v", err)
		return m
	}
	m.cfg.Store(cfg)
	m.styles = ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))
	m.spinner.Style = m.styles.Spinner
	if m.session != nil {
		m.session.Simulator().Reconfigure(cfg.GetReplyDelay(), cfg.Chat.ReplyText)
	}
	m.layout()
	m.refreshConversation(false)
	m.status = "configuration reloaded"
	logging.UI("configuration reloaded (theme %s)", cfg.UI.Theme)
	return m
}

// =============================================================================
// SHUTDOWN
// =============================================================================

// Shutdown cancels pending replies and module loads and stops the event
// listener. Safe to call multiple times.
func (m *Model) Shutdown() {
	m.shutdownOnce.Do(func() {
		if m.unwatch != nil {
			m.unwatch()
		}
		if m.session != nil {
			m.session.Close()
		}
		m.resize.Cancel()
		m.composer.Close()
		m.shutdownCancel()
		logging.UI("shutdown complete")
	})
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Shutdown()
	m.quitting = true
	return m, tea.Quit
}
