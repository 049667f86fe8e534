package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// runCommand handles the slash commands understood in any input field.
// Unknown input is reported as not handled so it can be sent as a message.
func (m Model) runCommand(input string) (Model, tea.Cmd, bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return m, nil, false
	}

	switch fields[0] {
	case "/quit", "/exit":
		next, cmd := m.quit()
		return next.(Model), cmd, true

	case "/go":
		if len(fields) < 2 {
			m.status = "usage: /go <path>"
			return m, nil, true
		}
		return m.navigate(fields[1]), nil, true

	case "/history":
		m.status = "visited: " + strings.Join(m.composer.History(), " → ")
		m.input.Reset()
		return m, nil, true
	}
	return m, nil, false
}
