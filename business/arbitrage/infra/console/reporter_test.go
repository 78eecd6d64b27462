package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	network "github.com/fd1az/arbitrage-evaluator/business/network/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
)

func TestReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	net := network.Compatibility([]string{"ETH"}, []string{"ETH"})
	r.Report(&domain.Report{
		ID:        "abc",
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Route: domain.Route{
			Mode:    domain.ModeSingleAsset,
			LegA:    domain.Leg{Exchange: pricing.MEXC, Asset: "JASMY", Price: decimal.RequireFromString("0.0315")},
			LegB:    domain.Leg{Exchange: pricing.GateIO, Asset: "JASMY", Price: decimal.RequireFromString("0.0325")},
			Capital: decimal.NewFromInt(1000),
		},
		Result: &domain.Result{
			FinalValue:       decimal.RequireFromString("1028.6529"),
			NetSpreadPercent: decimal.RequireFromString("2.8653"),
			Diagnosis:        domain.Positive,
		},
		Network:    &net,
		Commentary: "Recommendation: Viable.\n- Risk: transfer time",
		Warnings:   []string{"archive offline"},
	})

	out := buf.String()
	for _, want := range []string{
		"EVALUATION POSITIVE",
		"MEXC → Gate.io",
		"1028.6529 USDT",
		"2.8653%",
		"Compatible via ETH network",
		"- Risk: transfer time",
		"WARNING: archive offline",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReporter_ConnectionStatusPrintsChangesOnly(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.UpdateConnectionStatus("MEXC", true, 80*time.Millisecond)
	r.UpdateConnectionStatus("MEXC", true, 90*time.Millisecond)
	r.UpdateConnectionStatus("MEXC", false, 0)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "unreachable") {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestReporter_NilResultIgnored(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Report(&domain.Report{})
	if buf.Len() != 0 {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
