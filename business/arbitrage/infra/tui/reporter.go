// Package tui forwards evaluations to the Bubble Tea dashboard.
package tui

import (
	"context"
	"time"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/pkg/ui"
)

// Sender delivers a message to the running program.
type Sender func(msg any)

// Reporter implements app.Reporter for the dashboard.
type Reporter struct {
	send Sender
}

// NewReporter creates a Reporter that sends through ui.Send.
func NewReporter() *Reporter {
	return NewReporterWithSender(func(msg any) { ui.Send(msg) })
}

// NewReporterWithSender is NewReporter with a custom sink.
func NewReporterWithSender(send Sender) *Reporter {
	return &Reporter{send: send}
}

// Start is a no-op; the program is started by main.
func (r *Reporter) Start(ctx context.Context) error {
	return nil
}

// Report sends an evaluation to the dashboard.
func (r *Reporter) Report(report *domain.Report) {
	r.send(ui.ReportMsg{Report: report})
	for _, w := range report.Warnings {
		r.send(ui.LogMsg{Level: "warn", Message: w})
	}
}

// UpdateQuotes sends price updates to the dashboard.
func (r *Reporter) UpdateQuotes(quotes ...*pricing.Quote) {
	r.send(ui.QuotesMsg{Quotes: quotes})
}

// UpdateConnectionStatus sends reachability to the dashboard.
func (r *Reporter) UpdateConnectionStatus(name string, connected bool, latency time.Duration) {
	r.send(ui.ConnectionStatusMsg{Name: name, Connected: connected, Latency: latency})
}

// PollState tells the dashboard whether the poller is running.
func (r *Reporter) PollState(enabled bool, reason string) {
	r.send(ui.PollStateMsg{Enabled: enabled, Reason: reason})
}

// Stop is a no-op; the program exits on its own quit key.
func (r *Reporter) Stop() error {
	return nil
}
