// Package ui provides the visual styling for the supportchat terminal client.
// Light and dark palettes share semantic colours; presence tokens from the
// contact directory are resolved to concrete colours here.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"supportchat/internal/contacts"
)

var (
	// Light Mode Colors
	LightBackground = lipgloss.Color("#f7f8fa")
	LightForeground = lipgloss.Color("#1b2430")
	LightPrimary    = lipgloss.Color("#2563eb")
	LightSecondary  = lipgloss.Color("#e5e7eb")
	LightMuted      = lipgloss.Color("#6b7280")
	LightBorder     = lipgloss.Color("#d1d5db")
	LightBubbleSelf = lipgloss.Color("#dbeafe")
	LightBubbleThem = lipgloss.Color("#f3f4f6")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#111827")
	DarkForeground = lipgloss.Color("#f3f4f6")
	DarkPrimary    = lipgloss.Color("#60a5fa")
	DarkSecondary  = lipgloss.Color("#1f2937")
	DarkMuted      = lipgloss.Color("#9ca3af")
	DarkBorder     = lipgloss.Color("#374151")
	DarkBubbleSelf = lipgloss.Color("#1e3a8a")
	DarkBubbleThem = lipgloss.Color("#1f2937")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Online      = lipgloss.Color("#22c55e")
	Busy        = lipgloss.Color("#f59e0b")
	Offline     = lipgloss.Color("#9ca3af")
)

// Theme holds the current color scheme
type Theme struct {
	Name       string
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	BubbleSelf lipgloss.Color
	BubbleThem lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Name:       "light",
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		BubbleSelf: LightBubbleSelf,
		BubbleThem: LightBubbleThem,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Name:       "dark",
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		BubbleSelf: DarkBubbleSelf,
		BubbleThem: DarkBubbleThem,
		IsDark:     true,
	}
}

// ThemeByName resolves a configured theme name. "auto" and unknown names
// fall back to DetectTheme.
func ThemeByName(name string) Theme {
	switch strings.ToLower(name) {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		return DetectTheme()
	}
}

// DetectTheme picks a theme from COLORFGBG when set, otherwise from the
// terminal's reported background.
func DetectTheme() Theme {
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil {
			if (bg >= 0 && bg <= 6) || bg == 8 {
				return DarkTheme()
			}
			return LightTheme()
		}
	}
	if lipgloss.HasDarkBackground() {
		return DarkTheme()
	}
	return LightTheme()
}

// PresenceColor resolves a presence token to a colour. Unknown tokens render
// as offline.
func PresenceColor(token contacts.ColorToken) lipgloss.Color {
	switch token {
	case contacts.TokenOnline:
		return Online
	case contacts.TokenBusy:
		return Busy
	default:
		return Offline
	}
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Sidebar lipgloss.Style
	Panel   lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Error    lipgloss.Style

	// Sidebar entries
	ContactName     lipgloss.Style
	ContactSelected lipgloss.Style
	Avatar          lipgloss.Style

	// Conversation
	BubbleSelf lipgloss.Style
	BubbleThem lipgloss.Style
	Timestamp  lipgloss.Style

	// Input
	Prompt         lipgloss.Style
	SendEnabled    lipgloss.Style
	SendDisabled   lipgloss.Style
	Spinner        lipgloss.Style
	PlaceholderBox lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Sidebar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		ContactName: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		ContactSelected: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Background(theme.Secondary).
			Bold(true),

		Avatar: lipgloss.NewStyle().
			Foreground(theme.Background).
			Background(theme.Primary).
			Padding(0, 1).
			Bold(true),

		BubbleSelf: lipgloss.NewStyle().
			Background(theme.BubbleSelf).
			Foreground(theme.Foreground).
			Padding(0, 1),

		BubbleThem: lipgloss.NewStyle().
			Background(theme.BubbleThem).
			Foreground(theme.Foreground).
			Padding(0, 1),

		Timestamp: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Faint(true),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		SendEnabled: lipgloss.NewStyle().
			Foreground(theme.Background).
			Background(theme.Primary).
			Padding(0, 1).
			Bold(true),

		SendDisabled: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Secondary).
			Padding(0, 1),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Primary),

		PlaceholderBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 4),
	}
}

// PresenceDot renders the presence indicator for p.
func (s Styles) PresenceDot(p contacts.Presence) string {
	return lipgloss.NewStyle().
		Foreground(PresenceColor(contacts.PresenceColor(p))).
		Render("●")
}
