package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	network "github.com/fd1az/arbitrage-evaluator/business/network/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
)

func dashboard(t *testing.T) Model {
	t.Helper()
	m := New()
	m.phase = PhaseDashboard
	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 50})
	return next.(Model)
}

func sampleReport(diag domain.Diagnosis) *domain.Report {
	net := network.Compatibility([]string{"ETH"}, []string{"ETH"})
	return &domain.Report{
		ID:        "r1",
		Timestamp: time.Now(),
		Route: domain.Route{
			Mode: domain.ModeSingleAsset,
			LegA: domain.Leg{Exchange: pricing.MEXC, Asset: "JASMY"},
			LegB: domain.Leg{Exchange: pricing.GateIO, Asset: "JASMY"},
		},
		Result: &domain.Result{
			NetSpreadPercent: decimal.RequireFromString("2.87"),
			FinalValue:       decimal.RequireFromString("1028.65"),
			Diagnosis:        diag,
		},
		Network:  &net,
		Duration: 120 * time.Millisecond,
	}
}

func TestModel_ReportUpdatesStats(t *testing.T) {
	m := dashboard(t)

	next, _ := m.Update(ReportMsg{Report: sampleReport(domain.Positive)})
	m = next.(Model)
	next, _ = m.Update(ReportMsg{Report: sampleReport(domain.Negative)})
	m = next.(Model)

	st := m.stats.Stats()
	if st.Evaluations != 2 || st.Positive != 1 || st.Negative != 1 {
		t.Errorf("stats = %+v", st)
	}
	if m.evaluations.Len() != 2 {
		t.Errorf("evaluations = %d, want 2", m.evaluations.Len())
	}
	if !strings.Contains(m.View(), "MEXC → Gate.io") {
		t.Error("view does not show the route")
	}
}

func TestModel_PauseFreezesList(t *testing.T) {
	m := dashboard(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m = next.(Model)
	next, _ = m.Update(ReportMsg{Report: sampleReport(domain.Positive)})
	m = next.(Model)

	if m.evaluations.Len() != 0 {
		t.Errorf("evaluations = %d while paused, want 0", m.evaluations.Len())
	}
	if m.stats.Stats().Evaluations != 1 {
		t.Error("stats not counted while paused")
	}
}

func TestModel_QuotesAndStatus(t *testing.T) {
	m := dashboard(t)

	next, _ := m.Update(QuotesMsg{Quotes: []*pricing.Quote{
		{Exchange: pricing.MEXC, Pair: "JASMYUSDT", Price: decimal.RequireFromString("0.0315"), FetchedAt: time.Now()},
		nil,
	}})
	m = next.(Model)
	next, _ = m.Update(ConnectionStatusMsg{Name: "Gate.io", Connected: false})
	m = next.(Model)

	if m.prices.Len() != 1 {
		t.Errorf("prices = %d, want 1", m.prices.Len())
	}
	if st, ok := m.status.Get("Gate.io"); !ok || st.Connected {
		t.Errorf("Gate.io status = %+v", st)
	}
}

func TestModel_ErrorsKeepLastThree(t *testing.T) {
	m := dashboard(t)
	for i := 0; i < 5; i++ {
		next, _ := m.Update(ErrorMsg{Error: errors.New("boom")})
		m = next.(Model)
	}
	if len(m.errors) != 3 {
		t.Errorf("errors = %d, want 3", len(m.errors))
	}
	if m.stats.Stats().Errors != 5 {
		t.Errorf("error count = %d, want 5", m.stats.Stats().Errors)
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := dashboard(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !next.(Model).quitting || cmd == nil {
		t.Error("ctrl+c did not quit")
	}
}

func TestActivityStyle(t *testing.T) {
	tests := []struct {
		line string
		want lipgloss.Color
	}{
		{"JASMY MEXC → Gate.io: +2.870% (Positive)", ColorSecondary},
		{"JASMY MEXC → Gate.io: -0.400% (Negative)", ColorDanger},
		{"warning: advisory unreachable", ColorDanger},
		{"JASMY MEXC → Gate.io: +0.000% (Neutral)", ColorWarning},
		{"Poller started", ColorMuted},
	}
	for _, tt := range tests {
		if got := activityStyle(tt.line).GetForeground(); got != tt.want {
			t.Errorf("activityStyle(%q) foreground = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestModel_PollDisabledCapsFeed(t *testing.T) {
	m := dashboard(t)
	for i := 0; i < maxActivity+2; i++ {
		next, _ := m.Update(ReportMsg{Report: sampleReport(domain.Neutral)})
		m = next.(Model)
	}
	next, _ := m.Update(PollStateMsg{Enabled: false, Reason: "MEXC: HTTP 503"})
	m = next.(Model)

	if len(m.activityFeed) != maxActivity {
		t.Fatalf("activity = %d, want %d", len(m.activityFeed), maxActivity)
	}
	if last := m.activityFeed[maxActivity-1]; !strings.HasSuffix(last, "Poller disabled: MEXC: HTTP 503") {
		t.Errorf("last activity = %q", last)
	}
	if m.stats.Stats().PollEnabled {
		t.Error("poll should be reported disabled")
	}
}
