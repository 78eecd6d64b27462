// Package ui provides the Bubble Tea dashboard for the evaluation poller.
package ui

import (
	"time"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
)

// Message types for TUI updates

// ReportMsg is sent when an evaluation completes.
type ReportMsg struct {
	Report *domain.Report
}

// QuotesMsg is sent when fresh prices arrive.
type QuotesMsg struct {
	Quotes []*pricing.Quote
}

// ConnectionStatusMsg is sent when an exchange's reachability changes.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
	Latency   time.Duration
}

// PollStateMsg is sent when the poller is enabled or disabled.
type PollStateMsg struct {
	Enabled bool
	Reason  string
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}
