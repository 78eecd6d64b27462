package tui

import (
	"testing"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/pkg/ui"
)

func TestReporter_SendsMessages(t *testing.T) {
	var got []any
	r := NewReporterWithSender(func(msg any) { got = append(got, msg) })

	r.Report(&domain.Report{ID: "x", Warnings: []string{"advisory failed"}})
	r.UpdateQuotes(&pricing.Quote{Exchange: pricing.MEXC})
	r.UpdateConnectionStatus("MEXC", true, 0)

	if len(got) != 4 {
		t.Fatalf("got %d messages, want 4", len(got))
	}
	if msg, ok := got[0].(ui.ReportMsg); !ok || msg.Report.ID != "x" {
		t.Errorf("first message = %#v", got[0])
	}
	if msg, ok := got[1].(ui.LogMsg); !ok || msg.Level != "warn" {
		t.Errorf("second message = %#v", got[1])
	}
	if _, ok := got[2].(ui.QuotesMsg); !ok {
		t.Errorf("third message = %#v", got[2])
	}
	if msg, ok := got[3].(ui.ConnectionStatusMsg); !ok || msg.Name != "MEXC" {
		t.Errorf("fourth message = %#v", got[3])
	}
}

func TestReporter_PollState(t *testing.T) {
	var got []any
	r := NewReporterWithSender(func(msg any) { got = append(got, msg) })

	r.PollState(false, "MEXC unreachable")

	if len(got) != 1 {
		t.Fatalf("got %d messages, want 1", len(got))
	}
	if msg, ok := got[0].(ui.PollStateMsg); !ok || msg.Enabled || msg.Reason != "MEXC unreachable" {
		t.Errorf("message = %#v", got[0])
	}
}
