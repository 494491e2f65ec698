package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1c1714")
	Mantle   = lipgloss.Color("#15110f")
	Surface1 = lipgloss.Color("#4a3f36")
	Text     = lipgloss.Color("#f2e6d8")
	Subtext0 = lipgloss.Color("#b8a898")
	Amber    = lipgloss.Color("#f5a623")
	Copper   = lipgloss.Color("#d9804e")
	Hop      = lipgloss.Color("#9ccc65")
	Foam     = lipgloss.Color("#fff4d6")
	Stout    = lipgloss.Color("#e57373")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(0, 1)

	PaneActive = Pane.BorderForeground(Amber)

	Title = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Copper).Bold(true)
	Good  = lipgloss.NewStyle().Foreground(Hop).Bold(true)
	Bad   = lipgloss.NewStyle().Foreground(Stout)
	Clock = lipgloss.NewStyle().Foreground(Foam).Bold(true)
)
