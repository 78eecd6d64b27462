// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// QuoteRow is the latest price of one pair on one exchange.
type QuoteRow struct {
	Exchange  string
	Pair      string
	Price     decimal.Decimal
	FetchedAt time.Time
}

// PricesComponent renders the latest quotes.
type PricesComponent struct {
	rows map[string]QuoteRow // exchange|pair -> row
}

// NewPricesComponent creates a new prices component.
func NewPricesComponent() *PricesComponent {
	return &PricesComponent{rows: make(map[string]QuoteRow)}
}

// Update replaces the rows for the given quotes.
func (p *PricesComponent) Update(rows ...QuoteRow) {
	for _, row := range rows {
		p.rows[row.Exchange+"|"+row.Pair] = row
	}
}

// Len returns the number of tracked pairs.
func (p *PricesComponent) Len() int {
	return len(p.rows)
}

// View renders the prices component.
func (p *PricesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var b strings.Builder
	b.WriteString(headerStyle.Render("PRICES"))
	b.WriteString("\n\n")

	if len(p.rows) == 0 {
		b.WriteString(dimStyle.Render("  Waiting for price data..."))
		return b.String()
	}

	keys := make([]string, 0, len(p.rows))
	for k := range p.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(&b, "  %-10s  %-12s  %16s  %8s\n", "Exchange", "Pair", "Last", "Age")
	b.WriteString(dimStyle.Render("  "+strings.Repeat("─", 52)) + "\n")

	for _, k := range keys {
		row := p.rows[k]
		age := time.Since(row.FetchedAt).Round(time.Second)
		fmt.Fprintf(&b, "  %-10s  %-12s  %16s  %8s\n",
			row.Exchange,
			row.Pair,
			row.Price.String(),
			dimStyle.Render(age.String()),
		)
	}
	return b.String()
}
