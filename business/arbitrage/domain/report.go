package domain

import (
	"time"

	"github.com/shopspring/decimal"

	network "github.com/fd1az/arbitrage-evaluator/business/network/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
)

// Report is one run of the evaluation pipeline.
type Report struct {
	ID         string                       `json:"id"`
	Timestamp  time.Time                    `json:"timestamp"`
	Route      Route                        `json:"route"`
	QuoteA     *pricing.Quote               `json:"quoteA,omitempty"`
	QuoteB     *pricing.Quote               `json:"quoteB,omitempty"`
	Result     *Result                      `json:"result"`
	Network    *network.CompatibilityResult `json:"network,omitempty"`
	Commentary string                       `json:"commentary,omitempty"`
	Warnings   []string                     `json:"warnings,omitempty"`
	Duration   time.Duration                `json:"durationNs"`
}

// IsProfitable returns true if the evaluation is Positive and a transfer
// network exists (or none is needed).
func (r *Report) IsProfitable() bool {
	if !r.Result.IsProfitable() {
		return false
	}
	if r.Route.Direction().SameExchange() || r.Network == nil {
		return true
	}
	return r.Network.IsCompatible
}

// EvaluationContext is what the advisory generator sees.
type EvaluationContext struct {
	AssetA            string                      `json:"assetA"`
	ExchangeA         string                      `json:"exchangeA"`
	PriceA            decimal.Decimal             `json:"priceA"`
	FeeA              decimal.Decimal             `json:"feeA"`
	ExchangeB         string                      `json:"exchangeB"`
	PriceB            decimal.Decimal             `json:"priceB"`
	FeeB              decimal.Decimal             `json:"feeB"`
	InitialInvestment decimal.Decimal             `json:"initialInvestment"`
	FinalUSDTValue    decimal.Decimal             `json:"finalUSDTValue"`
	Spread            decimal.Decimal             `json:"spread"`
	NetworkAnalysis   network.CompatibilityResult `json:"networkAnalysisResult"`
}

// NewEvaluationContext assembles the advisory input from an evaluated route.
func NewEvaluationContext(route Route, result *Result, net network.CompatibilityResult) EvaluationContext {
	ctx := EvaluationContext{
		AssetA:            route.LegA.Asset.String(),
		ExchangeA:         string(route.LegA.Exchange),
		PriceA:            route.LegA.Price,
		FeeA:              route.LegA.FeePercent,
		ExchangeB:         string(route.LegB.Exchange),
		PriceB:            route.LegB.Price,
		FeeB:              route.LegB.FeePercent,
		InitialInvestment: route.Capital,
		NetworkAnalysis:   net,
	}
	if result != nil {
		ctx.FinalUSDTValue = result.FinalValue
		ctx.Spread = result.NetSpreadPercent
	}
	return ctx
}
