// Package console reports evaluations as text blocks on a writer.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
)

const rule = "================================================================================"
const thin = "--------------------------------------------------------------------------------"

// Reporter implements app.Reporter for CLI output.
type Reporter struct {
	mu  sync.Mutex
	out io.Writer
	// connection state last printed per exchange
	seen map[string]bool
}

// NewReporter creates a Reporter writing to out, or stdout when out is nil.
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{out: out, seen: make(map[string]bool)}
}

// Start prints the banner.
func (r *Reporter) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, "Arbitrage Evaluator Started")
	fmt.Fprintln(r.out, "===========================")
	return nil
}

// Report prints one evaluation.
func (r *Reporter) Report(rep *domain.Report) {
	if rep == nil || rep.Result == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	res := rep.Result
	route := rep.Route

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "EVALUATION %s  [%s]\n", strings.ToUpper(string(res.Diagnosis)), rep.ID)
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "Timestamp:      %s\n", rep.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(r.out, "Mode:           %s\n", route.Mode)
	fmt.Fprintf(r.out, "Direction:      %s\n", route.Direction())
	fmt.Fprintln(r.out, thin)
	fmt.Fprintln(r.out, "LEGS")
	fmt.Fprintf(r.out, "  A %-10s  %-8s  %s  (fee %s%%)\n", route.LegA.Exchange, route.LegA.Asset, route.LegA.Price, route.LegA.FeePercent)
	fmt.Fprintf(r.out, "  B %-10s  %-8s  %s  (fee %s%%)\n", route.LegB.Exchange, route.LegB.Asset, route.LegB.Price, route.LegB.FeePercent)
	fmt.Fprintln(r.out, thin)
	fmt.Fprintln(r.out, "RESULT")
	fmt.Fprintf(r.out, "  Capital:        %s USDT\n", route.Capital.StringFixed(2))
	fmt.Fprintf(r.out, "  After leg 1:    %s\n", res.AmountAfterLeg1.StringFixed(6))
	fmt.Fprintf(r.out, "  Final:          %s USDT\n", res.FinalValue.StringFixed(4))
	fmt.Fprintf(r.out, "  Net spread:     %s%%\n", res.NetSpreadPercent.StringFixed(4))
	fmt.Fprintf(r.out, "  Profit:         %s USDT\n", res.Profit.StringFixed(4))
	if be := res.BreakEven; be != nil {
		fmt.Fprintf(r.out, "  Break-even B:   %s (delta %s%%)\n", be.BreakEvenPriceB.StringFixed(8), be.DeltaRelativePercent.StringFixed(4))
	}
	if rep.Network != nil {
		fmt.Fprintln(r.out, thin)
		fmt.Fprintf(r.out, "NETWORK         %s\n", rep.Network.Reasoning)
	}
	if rep.Commentary != "" {
		fmt.Fprintln(r.out, thin)
		fmt.Fprintln(r.out, "ADVISORY")
		for _, line := range strings.Split(rep.Commentary, "\n") {
			fmt.Fprintf(r.out, "  %s\n", line)
		}
	}
	for _, w := range rep.Warnings {
		fmt.Fprintf(r.out, "WARNING: %s\n", w)
	}
	fmt.Fprintln(r.out, rule)
}

// UpdateQuotes is a no-op; quotes are printed with each report.
func (r *Reporter) UpdateQuotes(quotes ...*pricing.Quote) {}

// UpdateConnectionStatus prints reachability changes only.
func (r *Reporter) UpdateConnectionStatus(name string, connected bool, latency time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.seen[name]; ok && prev == connected {
		return
	}
	r.seen[name] = connected

	status := "unreachable"
	if connected {
		status = fmt.Sprintf("reachable (%s)", latency.Round(time.Millisecond))
	}
	fmt.Fprintf(r.out, "[%s] %s: %s\n", time.Now().Format("15:04:05"), name, status)
}

// Stop prints the closing line.
func (r *Reporter) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Arbitrage Evaluator Stopped")
	return nil
}
