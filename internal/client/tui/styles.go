package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent      = lipgloss.Color("#8BC34A")
	muted       = lipgloss.Color("#6B7280")
	destructive = lipgloss.Color("#e53935")
	border      = lipgloss.Color("#2a3850")
)

type styles struct {
	Title    lipgloss.Style
	Pane     lipgloss.Style
	Focused  lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Notice   lipgloss.Style
	Modal    lipgloss.Style
}

func defaultStyles() styles {
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	return styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Pane:     pane,
		Focused:  pane.BorderForeground(accent),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Done:     lipgloss.NewStyle().Strikethrough(true).Foreground(muted),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(destructive),
		Notice:   lipgloss.NewStyle().Foreground(accent),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(destructive).
			Padding(0, 2),
	}
}
