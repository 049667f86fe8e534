package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders static rows for the non-interactive commands.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewTable creates a table with the given title and headers.
func NewTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers}
}

// AddRow appends a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.Headers))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Render lays the table out with styles. An empty table renders only its
// title and headers.
func (t *Table) Render(styles Styles) string {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	header := styles.Bold.Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	sep := styles.Muted.Render("|")

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	line := func(style lipgloss.Style, values []string) {
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = style.Width(widths[i] + 2).Render(v)
		}
		sb.WriteString(strings.TrimRight(strings.Join(parts, sep), " "))
		sb.WriteString("\n")
	}

	line(header, t.Headers)
	total := len(widths) - 1
	for _, w := range widths {
		total += w + 2
	}
	sb.WriteString(styles.Muted.Render(strings.Repeat("-", max(total, 0))))
	sb.WriteString("\n")
	for _, row := range t.Rows {
		line(cell, row)
	}
	return sb.String()
}
