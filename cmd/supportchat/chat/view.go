package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"supportchat/internal/lazy"
	"supportchat/internal/route"
)

// View renders the current area.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.snap.Resolution.Area {
	case route.AreaAuth:
		return m.authView()
	case route.AreaChat:
		return m.chatView()
	default:
		return m.styles.Muted.Render("Starting...")
	}
}

// =============================================================================
// AUTH AREA
// =============================================================================

func (m Model) authView() string {
	s := m.styles
	register := m.snap.Resolution.AuthPage == route.AuthPageRegister

	title, fields, toggle := "Sign in", []string{"Email", "Password"}, "tab: create an account"
	if register {
		title, fields, toggle = "Create an account", []string{"Name", "Email", "Password"}, "tab: back to sign in"
	}

	var form strings.Builder
	form.WriteString(s.Title.Render(title))
	form.WriteString("\n\n")
	for _, f := range fields {
		form.WriteString(fmt.Sprintf("%-10s %s\n", f, s.Muted.Render("[ ________________ ]")))
	}
	form.WriteString("\n")
	form.WriteString(s.Subtitle.Render("No account is needed for this demo."))

	sections := []string{
		s.Title.Render("Support Chat"),
		s.PlaceholderBox.Render(form.String()),
	}
	if res := m.snap.Resolution; res.Redirected && route.Normalize(res.Requested) != route.PathRoot {
		sections = append(sections, s.Muted.Render(fmt.Sprintf("%q is not a page here; showing sign in.", m.snap.Resolution.Requested)))
	}
	sections = append(sections,
		m.input.View(),
		s.Footer.Render("enter: continue to chat · "+toggle+" · /go <path> · ctrl+c: quit"),
	)
	if m.status != "" {
		sections = append(sections, s.Muted.Render(m.status))
	}
	return m.place(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// place centres content once the terminal size is known.
func (m Model) place(content string) string {
	if !m.ready || m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// =============================================================================
// CHAT AREA
// =============================================================================

func (m Model) chatView() string {
	// Either module failing fails the whole area, even while the other is
	// still loading.
	if m.snap.State == route.StateChatFailed {
		return m.failureView(m.snap.Err)
	}
	return lazy.Boundary(m.composer.ShellFuture(), lazy.Fallbacks{
		Pending: func() string { return m.loadingView("Loading workspace…") },
		Failed:  m.failureView,
	}, func(ws *Workspace) string {
		return m.workspaceView(ws)
	})
}

func (m Model) loadingView(label string) string {
	return m.place(m.spinner.View() + " " + m.styles.Muted.Render(label))
}

func (m Model) failureView(err error) string {
	return m.place(m.failurePanel(err))
}

func (m Model) failurePanel(err error) string {
	s := m.styles
	body := lipgloss.JoinVertical(lipgloss.Left,
		s.Error.Render("Could not load the chat"),
		"",
		s.Muted.Render(errText(err)),
		"",
		s.Footer.Render("r: retry · esc: back to sign in · ctrl+c: quit"),
	)
	return s.Panel.Render(body)
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func (m Model) workspaceView(ws *Workspace) string {
	s := m.styles
	width := m.contentWidth()

	main := lipgloss.JoinVertical(lipgloss.Left,
		ws.Header(s, width),
		lazy.Boundary(m.composer.PageFuture(), lazy.Fallbacks{
			Pending: func() string {
				return lipgloss.Place(width, m.viewport.Height, lipgloss.Center, lipgloss.Center,
					m.spinner.View()+" "+s.Muted.Render("Loading conversation…"))
			},
			Failed: m.failurePanel,
		}, func(*Page) string {
			return m.conversationView()
		}),
	)

	sidebar := ws.Sidebar(s, m.sidebarWidth(), max(m.height-footerHeight, 1))
	if sidebar == "" {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}

func (m Model) conversationView() string {
	s := m.styles
	send := s.SendEnabled.Render("Send")
	if strings.TrimSpace(m.input.Value()) == "" {
		send = s.SendDisabled.Render("Send")
	}
	inputRow := lipgloss.JoinHorizontal(lipgloss.Center, m.input.View(), " ", send)

	footer := "enter: send · ctrl+n/ctrl+p: contacts · esc: sign out · ctrl+c: quit"
	if m.status != "" {
		footer = m.status
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		"",
		inputRow,
		s.Footer.Render(footer),
	)
}

// SendEnabled reports whether submitting now would send a message.
func (m Model) SendEnabled() bool {
	return m.session != nil && strings.TrimSpace(m.input.Value()) != ""
}
