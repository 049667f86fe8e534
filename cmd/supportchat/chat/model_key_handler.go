package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"supportchat/internal/logging"
	"supportchat/internal/route"
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.snap.State {
	case route.StateAuth:
		return m.handleAuthKey(msg)
	case route.StateChatReady:
		return m.handleChatKey(msg)
	case route.StateChatFailed:
		switch msg.String() {
		case "r":
			logging.UI("retrying chat modules")
			return m.navigate(route.PathChat), nil
		case "esc":
			return m.navigate(route.PathAuth), nil
		}
	case route.StateChatPending:
		if msg.Type == tea.KeyEsc {
			return m.navigate(route.PathAuth), nil
		}
	}
	return m, nil
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab:
		if m.snap.Resolution.AuthPage == route.AuthPageRegister {
			return m.navigate(route.PathAuth), nil
		}
		return m.navigate(route.PathRegister), nil

	case tea.KeyEnter:
		if next, cmd, ok := m.runCommand(m.input.Value()); ok {
			return next, cmd
		}
		// No credentials are checked: continuing always opens the chat.
		return m.navigate(route.PathChat), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.handleSubmit()

	case tea.KeyEsc:
		return m.navigate(route.PathAuth), nil

	case tea.KeyCtrlN, tea.KeyCtrlP:
		if ws, _ := m.composer.Shell(); ws != nil {
			if msg.Type == tea.KeyCtrlN {
				ws.Move(1)
			} else {
				ws.Move(-1)
			}
		}
		return m, nil

	case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit sends the input as a message, or runs it as a command.
// Blank input is a no-op: the send affordance is disabled.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	if next, cmd, ok := m.runCommand(value); ok {
		return next, cmd
	}
	if strings.TrimSpace(value) == "" || m.session == nil {
		return m, nil
	}
	if _, ok := m.session.Send(value); ok {
		m.input.Reset()
		m.status = ""
	}
	return m, nil
}
