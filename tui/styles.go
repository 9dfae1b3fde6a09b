package tui

import "github.com/charmbracelet/lipgloss"

// Palette for the two themes.
var (
	lightForeground = lipgloss.Color("#0f172a")
	lightMuted      = lipgloss.Color("#64748b")
	lightAccent     = lipgloss.Color("#4f46e5")
	lightBorder     = lipgloss.Color("#cbd5e1")

	darkForeground = lipgloss.Color("#f1f5f9")
	darkMuted      = lipgloss.Color("#94a3b8")
	darkAccent     = lipgloss.Color("#a5b4fc")
	darkBorder     = lipgloss.Color("#334155")

	rose  = lipgloss.Color("#e11d48")
	amber = lipgloss.Color("#f59e0b")
	green = lipgloss.Color("#16a34a")
)

// Styles holds the rendered look of one theme.
type Styles struct {
	Dark     bool
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Selected lipgloss.Style
	Badge    lipgloss.Style
	Rating   lipgloss.Style
	Error    lipgloss.Style
	Stock    lipgloss.Style
	Panel    lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles builds the dark or light theme.
func NewStyles(dark bool) Styles {
	fg, muted, accent, border := lightForeground, lightMuted, lightAccent, lightBorder
	if dark {
		fg, muted, accent, border = darkForeground, darkMuted, darkAccent, darkBorder
	}
	return Styles{
		Dark:     dark,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Heading:  lipgloss.NewStyle().Bold(true).Foreground(fg),
		Text:     lipgloss.NewStyle().Foreground(fg),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Accent:   lipgloss.NewStyle().Foreground(accent),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Badge:    lipgloss.NewStyle().Bold(true).Foreground(rose),
		Rating:   lipgloss.NewStyle().Foreground(amber),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(rose),
		Stock:    lipgloss.NewStyle().Foreground(green),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		Help:     lipgloss.NewStyle().Foreground(muted),
	}
}
