// Package live streams evaluations to websocket subscribers.
package live

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
)

// Broadcaster is satisfied by *wsconn.Hub.
type Broadcaster interface {
	Broadcast(msg []byte)
}

// Event is the envelope written to subscribers.
type Event struct {
	Type string    `json:"type"` // report, quotes or status
	Time time.Time `json:"time"`
	Data any       `json:"data"`
}

type connectionStatus struct {
	Exchange  string `json:"exchange"`
	Connected bool   `json:"connected"`
	LatencyMs int64  `json:"latencyMs"`
}

// Reporter implements app.Reporter over a Broadcaster.
type Reporter struct {
	hub    Broadcaster
	logger logger.LoggerInterface
	now    func() time.Time
}

// NewReporter creates a Reporter.
func NewReporter(hub Broadcaster, log logger.LoggerInterface) *Reporter {
	return &Reporter{hub: hub, logger: log, now: time.Now}
}

// Start is a no-op.
func (r *Reporter) Start(ctx context.Context) error { return nil }

// Stop is a no-op; the hub is closed by its owner.
func (r *Reporter) Stop() error { return nil }

// Report broadcasts one evaluation.
func (r *Reporter) Report(report *domain.Report) {
	r.emit("report", report)
}

// UpdateQuotes broadcasts fresh prices.
func (r *Reporter) UpdateQuotes(quotes ...*pricing.Quote) {
	r.emit("quotes", quotes)
}

// UpdateConnectionStatus broadcasts an exchange's reachability.
func (r *Reporter) UpdateConnectionStatus(name string, connected bool, latency time.Duration) {
	r.emit("status", connectionStatus{Exchange: name, Connected: connected, LatencyMs: latency.Milliseconds()})
}

func (r *Reporter) emit(kind string, data any) {
	msg, err := json.Marshal(Event{Type: kind, Time: r.now().UTC(), Data: data})
	if err != nil {
		r.logger.Error(context.Background(), "live event encode failed", "type", kind, "error", err)
		return
	}
	r.hub.Broadcast(msg)
}
