package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// EvaluationRow is one evaluation in the list.
type EvaluationRow struct {
	Timestamp  string
	Direction  string
	Mode       string
	Asset      string
	SpreadPct  decimal.Decimal
	FinalValue decimal.Decimal
	Diagnosis  string
	Network    string
	Profitable bool
}

// EvaluationsComponent renders the most recent evaluations, newest first.
type EvaluationsComponent struct {
	rows    []EvaluationRow
	maxRows int
	offset  int
	visible int
}

// NewEvaluationsComponent creates a new evaluations component.
func NewEvaluationsComponent(maxRows int) *EvaluationsComponent {
	return &EvaluationsComponent{
		rows:    make([]EvaluationRow, 0),
		maxRows: maxRows,
		visible: 10,
	}
}

// Add adds a new evaluation to the list.
func (e *EvaluationsComponent) Add(row EvaluationRow) {
	e.rows = append([]EvaluationRow{row}, e.rows...)
	if len(e.rows) > e.maxRows {
		e.rows = e.rows[:e.maxRows]
	}
}

// Clear clears all evaluations.
func (e *EvaluationsComponent) Clear() {
	e.rows = make([]EvaluationRow, 0)
	e.offset = 0
}

// Len returns the number of stored rows.
func (e *EvaluationsComponent) Len() int {
	return len(e.rows)
}

// ScrollUp moves the window towards newer rows.
func (e *EvaluationsComponent) ScrollUp() {
	if e.offset > 0 {
		e.offset--
	}
}

// ScrollDown moves the window towards older rows.
func (e *EvaluationsComponent) ScrollDown() {
	if e.offset+e.visible < len(e.rows) {
		e.offset++
	}
}

// View renders the evaluations component.
func (e *EvaluationsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	positiveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	negativeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	neutralStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("EVALUATIONS (last %d)", e.maxRows)))
	b.WriteString("\n\n")

	if len(e.rows) == 0 {
		b.WriteString(dimStyle.Render("  No evaluations yet..."))
		return b.String()
	}

	fmt.Fprintf(&b, "  %-8s  %-22s  %-6s  %9s  %12s  %-9s  %s\n",
		"Time", "Route", "Asset", "Spread", "Final", "Result", "Network")
	b.WriteString(dimStyle.Render("  "+strings.Repeat("─", 86)) + "\n")

	end := min(e.offset+e.visible, len(e.rows))
	for _, row := range e.rows[e.offset:end] {
		style := neutralStyle
		switch row.Diagnosis {
		case "Positive":
			style = positiveStyle
		case "Negative":
			style = negativeStyle
		}
		icon := "✗"
		if row.Profitable {
			icon = "✓"
		}

		fmt.Fprintf(&b, "  %-8s  %-22s  %-6s  %9s  %12s  %s  %s\n",
			row.Timestamp,
			row.Direction,
			row.Asset,
			style.Render(fmt.Sprintf("%+.3f%%", row.SpreadPct.InexactFloat64())),
			row.FinalValue.StringFixed(2),
			style.Render(fmt.Sprintf("%s %-7s", icon, row.Diagnosis)),
			dimStyle.Render(row.Network),
		)
	}

	if len(e.rows) > e.visible {
		b.WriteString(dimStyle.Render(fmt.Sprintf("\n  %d-%d of %d", e.offset+1, end, len(e.rows))))
	}
	return b.String()
}
