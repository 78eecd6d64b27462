package ui

import "github.com/charmbracelet/lipgloss"

// Palette. Components under pkg/ui/components repeat the hex values since
// they cannot import this package.
var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSecondary = lipgloss.Color("#10B981")
	ColorDanger    = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
)

var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary).
			Padding(0, 2)

	HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted).Padding(0, 1)

	PositiveValue = lipgloss.NewStyle().Foreground(ColorSecondary)
	NegativeValue = lipgloss.NewStyle().Foreground(ColorDanger)
	NeutralValue  = lipgloss.NewStyle().Foreground(ColorWarning)
	MutedValue    = lipgloss.NewStyle().Foreground(ColorMuted)
)

// activityStyle colours one feed line by the outcome it reports.
func activityStyle(line string) lipgloss.Style {
	switch {
	case containsAny(line, "(Positive)"):
		return PositiveValue
	case containsAny(line, "warning:", "disabled", "(Negative)"):
		return NegativeValue
	case containsAny(line, "(Neutral)"):
		return NeutralValue
	default:
		return MutedValue
	}
}
