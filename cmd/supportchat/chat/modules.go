package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"supportchat/cmd/supportchat/ui"
	"supportchat/internal/contacts"
	"supportchat/internal/timeline"
)

// =============================================================================
// WORKSPACE SHELL
// =============================================================================

// Workspace is the chat area's frame: the contact sidebar and the header
// naming the active counterpart. The sidebar highlight is purely visual; the
// conversation always belongs to the directory's active contact.
type Workspace struct {
	dir      *contacts.Directory
	selected int
	latest   string
}

func newWorkspace(dir *contacts.Directory) *Workspace {
	if dir == nil {
		dir = contacts.Default()
	}
	return &Workspace{dir: dir}
}

// Selected returns the highlighted sidebar row.
func (w *Workspace) Selected() int {
	return w.selected
}

// Move shifts the sidebar highlight by delta, wrapping at both ends.
func (w *Workspace) Move(delta int) {
	n := w.dir.Len()
	if n == 0 {
		return
	}
	w.selected = ((w.selected+delta)%n + n) % n
}

// ShowLatest replaces the active contact's preview with the newest message
// of the live conversation. Empty text restores the directory's preview.
func (w *Workspace) ShowLatest(text string) {
	w.latest = strings.Join(strings.Fields(text), " ")
}

// Sidebar renders the contact list.
func (w *Workspace) Sidebar(s ui.Styles, width, height int) string {
	if width <= 0 {
		return ""
	}
	inner := width - s.Sidebar.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Contacts"))
	b.WriteString("\n\n")
	active, _ := w.dir.Active()
	for i, c := range w.dir.List() {
		name := ansi.Truncate(c.DisplayName, inner-2, "…")
		line := s.PresenceDot(c.Presence) + " "
		if i == w.Selected() {
			line += s.ContactSelected.Render(name)
		} else {
			line += s.ContactName.Render(name)
		}
		b.WriteString(line)
		b.WriteString("\n")
		preview := c.LastMessagePreview
		if c.ID == active.ID && w.latest != "" {
			preview = w.latest
		}
		if preview != "" {
			b.WriteString("  " + s.Muted.Render(ansi.Truncate(preview, inner-2, "…")))
			b.WriteString("\n")
		}
	}
	return s.Sidebar.Width(inner).Height(max(height, 1)).Render(strings.TrimRight(b.String(), "\n"))
}

// Header renders the active contact with its presence.
func (w *Workspace) Header(s ui.Styles, width int) string {
	active, ok := w.dir.Active()
	var line string
	if !ok {
		line = s.Muted.Render("No conversation")
	} else {
		line = lipgloss.JoinHorizontal(lipgloss.Center,
			s.Avatar.Render(active.Initials()), " ",
			s.Bold.Render(active.DisplayName), "  ",
			s.PresenceDot(active.Presence), " ",
			s.Muted.Render(active.Presence.Label()),
		)
	}
	inner := width - s.Header.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}
	return s.Header.Width(inner).Render(line)
}

// =============================================================================
// CONVERSATION PAGE
// =============================================================================

// Page renders the message timeline. Bodies go through glamour; if no
// renderer could be built they are word-wrapped as plain text.
type Page struct {
	style      string
	timeFormat string
	width      int
	renderer   *glamour.TermRenderer
}

func newPage(ctx context.Context, style, timeFormat string, width int) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := &Page{timeFormat: timeFormat}
	if err := p.Configure(style, width); err != nil {
		return nil, err
	}
	return p, nil
}

// Width is the width the page currently wraps to.
func (p *Page) Width() int { return p.width }

// Style is the glamour style in use.
func (p *Page) Style() string { return p.style }

// Configure rebuilds the markdown renderer for a style and width.
func (p *Page) Configure(style string, width int) error {
	if width < minContentWidth {
		width = minContentWidth
	}
	if style == p.style && width == p.width && p.renderer != nil {
		return nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(bubbleWidth(width)),
	)
	if err != nil {
		return fmt.Errorf("failed to build markdown renderer: %w", err)
	}
	p.style, p.width, p.renderer = style, width, r
	return nil
}

// RenderBody renders one message body.
func (p *Page) RenderBody(text string) string {
	if p.renderer != nil {
		if out, err := p.renderer.Render(text); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return ansi.Wrap(text, bubbleWidth(p.width), "")
}

// RenderTimeline renders the whole conversation: local messages on the
// right, counterpart messages on the left, each with its HH:MM time.
func (p *Page) RenderTimeline(msgs []timeline.Message, s ui.Styles) string {
	if len(msgs) == 0 {
		return lipgloss.PlaceHorizontal(p.width, lipgloss.Center,
			s.Muted.Render("No messages yet. Say hello!"))
	}
	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, p.renderMessage(msg, s))
	}
	return strings.Join(blocks, "\n\n")
}

func (p *Page) renderMessage(msg timeline.Message, s ui.Styles) string {
	bubble, align := s.BubbleThem, lipgloss.Left
	if msg.FromSelf() {
		bubble, align = s.BubbleSelf, lipgloss.Right
	}
	body := bubble.Render(p.RenderBody(msg.Text))
	stamp := s.Timestamp.Render(msg.Timestamp.Format(p.timeFormat))
	block := lipgloss.JoinVertical(align, body, stamp)
	return lipgloss.PlaceHorizontal(p.width, align, block)
}

const minContentWidth = 20

// bubbleWidth keeps bubbles to roughly three quarters of the row.
func bubbleWidth(width int) int {
	w := width * 3 / 4
	if w < minContentWidth-4 {
		w = minContentWidth - 4
	}
	return w
}
