package advisory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/app"
	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
)

// Verdict lines. Every commentary starts with one of these.
const (
	VerdictViable    = "Recommendation: Viable."
	VerdictRisky     = "Recommendation: Risky."
	VerdictNotViable = "Recommendation: Not viable."
)

// DefaultRiskSpread is the net spread, in percent, below which a positive
// route is only risky.
var DefaultRiskSpread = decimal.RequireFromString("0.5")

// RuleGenerator produces deterministic commentary without calling out.
type RuleGenerator struct {
	riskSpread decimal.Decimal
}

var _ app.AdvisoryGenerator = (*RuleGenerator)(nil)

// NewRuleGenerator creates a RuleGenerator. A non-positive riskSpread
// selects DefaultRiskSpread.
func NewRuleGenerator(riskSpread decimal.Decimal) *RuleGenerator {
	if !riskSpread.IsPositive() {
		riskSpread = DefaultRiskSpread
	}
	return &RuleGenerator{riskSpread: riskSpread}
}

// Generate implements app.AdvisoryGenerator.
func (g *RuleGenerator) Generate(ctx context.Context, c domain.EvaluationContext) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	spread := c.Spread.StringFixed(2) + "%"
	net := c.NetworkAnalysis
	var lines []string

	switch {
	case !net.IsCompatible:
		lines = append(lines, VerdictNotViable,
			fmt.Sprintf("Whatever the %s net spread, %s cannot be moved from %s to %s: %s.",
				spread, c.AssetA, c.ExchangeA, c.ExchangeB, strings.TrimSuffix(net.Reasoning, ".")))

	case c.Spread.GreaterThanOrEqual(g.riskSpread):
		lines = append(lines, VerdictViable,
			fmt.Sprintf("Buying %s on %s at %s and selling on %s at %s leaves a %s net spread after %s%% and %s%% fees, turning %s USDT into about %s USDT. %s.",
				c.AssetA, c.ExchangeA, c.PriceA, c.ExchangeB, c.PriceB, spread, c.FeeA, c.FeeB,
				c.InitialInvestment.StringFixed(2), c.FinalUSDTValue.StringFixed(2), net.Reasoning),
			"- Risk: prices can move before the transfer completes. Withdrawal and deposit fees are not included.")

	default:
		reason := "below the margin needed to absorb withdrawal fees and price movement"
		if !c.Spread.IsPositive() {
			reason = "not positive, so fees alone produce a loss"
		}
		lines = append(lines, VerdictRisky,
			fmt.Sprintf("The net spread of %s between %s and %s is %s. %s.",
				spread, c.ExchangeA, c.ExchangeB, reason, net.Reasoning),
			"- Risk: a thin or negative spread is easily erased by volatility.")
		if c.FeeA.Add(c.FeeB).GreaterThanOrEqual(c.Spread.Abs()) {
			lines = append(lines, "- Risk: trading fees are as large as the spread itself.")
		}
	}

	return strings.Join(lines, "\n"), nil
}
