package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds statistics for display.
type Stats struct {
	Evaluations   int64
	Positive      int64
	Negative      int64
	Neutral       int64
	Warnings      int64
	Errors        int64
	AvgDurationMs float64
	PollEnabled   bool
}

// StatsComponent renders statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// Stats returns the current statistics.
func (s *StatsComponent) Stats() Stats {
	return s.stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	positiveRate := float64(0)
	if s.stats.Evaluations > 0 {
		positiveRate = float64(s.stats.Positive) / float64(s.stats.Evaluations) * 100
	}

	errorsDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	if s.stats.Errors > 0 {
		errorsDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	}

	poll := errorStyle.Render("disabled")
	if s.stats.PollEnabled {
		poll = valueStyle.Render("running")
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Evaluations: %s  │  Positive: %s (%.1f%%)  │  Negative: %s  │  Neutral: %s\n",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Evaluations)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Positive)),
			positiveRate,
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Negative)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Neutral)),
		) +
		fmt.Sprintf("Avg duration: %s  │  Warnings: %s  │  Errors: %s  │  Poll: %s",
			valueStyle.Render(fmt.Sprintf("%.0fms", s.stats.AvgDurationMs)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Warnings)),
			errorsDisplay,
			poll,
		)
}
