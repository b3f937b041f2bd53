// internal/view/styles.go
package view

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#8a94a6")
	danger = lipgloss.Color("#e5534b")
	gold   = lipgloss.Color("#e3b341")
)

// Styles groups the lipgloss styles used by the renderers.
type Styles struct {
	Title     lipgloss.Style
	Header    lipgloss.Style
	Muted     lipgloss.Style
	Sponsored lipgloss.Style
	Rating    lipgloss.Style
	Empty     lipgloss.Style
	Failed    lipgloss.Style
	Pager     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		Header:    lipgloss.NewStyle().Bold(true).Underline(true),
		Muted:     lipgloss.NewStyle().Foreground(muted),
		Sponsored: lipgloss.NewStyle().Bold(true).Foreground(gold),
		Rating:    lipgloss.NewStyle().Foreground(gold),
		Empty:     lipgloss.NewStyle().Italic(true).Foreground(muted),
		Failed:    lipgloss.NewStyle().Bold(true).Foreground(danger).Border(lipgloss.NormalBorder()).BorderForeground(danger).Padding(0, 1),
		Pager:     lipgloss.NewStyle().MarginTop(1),
	}
}
