package live

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

type captureHub struct{ msgs [][]byte }

func (h *captureHub) Broadcast(msg []byte) { h.msgs = append(h.msgs, msg) }

func TestReporter_Envelopes(t *testing.T) {
	hub := &captureHub{}
	r := NewReporter(hub, &mockLogger{})
	r.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	r.Report(&domain.Report{
		ID:     "abc",
		Result: &domain.Result{NetSpreadPercent: decimal.RequireFromString("2.5"), Diagnosis: domain.Positive},
	})
	r.UpdateConnectionStatus("MEXC", true, 120*time.Millisecond)

	if len(hub.msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(hub.msgs))
	}

	var report struct {
		Type string `json:"type"`
		Data struct {
			ID     string `json:"id"`
			Result struct {
				NetSpreadPercent string `json:"netSpreadPercent"`
				Diagnosis        string `json:"diagnosis"`
			} `json:"result"`
		} `json:"data"`
	}
	if err := json.Unmarshal(hub.msgs[0], &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Type != "report" || report.Data.ID != "abc" {
		t.Errorf("report envelope = %+v", report)
	}
	if report.Data.Result.NetSpreadPercent != "2.5" || report.Data.Result.Diagnosis != "Positive" {
		t.Errorf("result = %+v", report.Data.Result)
	}

	var status struct {
		Type string           `json:"type"`
		Data connectionStatus `json:"data"`
	}
	if err := json.Unmarshal(hub.msgs[1], &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Type != "status" || status.Data.LatencyMs != 120 {
		t.Errorf("status envelope = %+v", status)
	}
}
