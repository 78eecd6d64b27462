package domain

import (
	"github.com/shopspring/decimal"
)

// Diagnosis classifies a net spread.
type Diagnosis string

const (
	Positive Diagnosis = "Positive"
	Negative Diagnosis = "Negative"
	Neutral  Diagnosis = "Neutral"
)

// DefaultEpsilon is the dead zone, in percentage points, inside which a
// spread counts as Neutral.
var DefaultEpsilon = decimal.RequireFromString("0.0001")

// Classify maps spread to a Diagnosis with a ±epsilon dead zone.
func Classify(spreadPercent, epsilon decimal.Decimal) Diagnosis {
	switch {
	case spreadPercent.GreaterThan(epsilon):
		return Positive
	case spreadPercent.LessThan(epsilon.Neg()):
		return Negative
	default:
		return Neutral
	}
}

// BreakEven shows how far current prices are from the zero-profit line.
type BreakEven struct {
	ConversionFactor     decimal.Decimal `json:"conversionFactor"`
	BreakEvenPriceB      decimal.Decimal `json:"breakEvenPriceB"`
	PriceBEquivalent     decimal.Decimal `json:"priceBEquivalent"`
	DeltaRelativePercent decimal.Decimal `json:"deltaRelativePercent"`
}

// Result is the outcome of evaluating a Route.
type Result struct {
	Mode             Mode            `json:"mode"`
	AmountAfterLeg1  decimal.Decimal `json:"amountAfterLeg1"`
	AmountAfterLeg2  decimal.Decimal `json:"amountAfterLeg2"`
	FinalValue       decimal.Decimal `json:"finalValue"`
	NetSpreadPercent decimal.Decimal `json:"netSpreadPercent"`
	Profit           decimal.Decimal `json:"profit"`
	Diagnosis        Diagnosis       `json:"diagnosis"`
	BreakEven        *BreakEven      `json:"breakEven,omitempty"`
}

// IsProfitable returns true for a Positive diagnosis.
func (r *Result) IsProfitable() bool {
	return r != nil && r.Diagnosis == Positive
}

// Parity compares a price reached through a conversion factor with the
// directly quoted price.
type Parity struct {
	Equivalent   decimal.Decimal `json:"equivalent"`
	DeltaPercent decimal.Decimal `json:"deltaPercent"`
}

// DefaultFixedFeeUnits is the per-swap fee charged in units of the bought asset.
var DefaultFixedFeeUnits = decimal.NewFromInt(200)

// ViabilityThreshold is the dead zone, in percentage points, of the fixed-fee swap.
var ViabilityThreshold = decimal.RequireFromString("0.10")

// SwapResult is the outcome of a swap with a fixed unit fee.
type SwapResult struct {
	UnitsBought       decimal.Decimal `json:"unitsBought"`
	UnitsAfterFee     decimal.Decimal `json:"unitsAfterFee"`
	UnitsSwapped      decimal.Decimal `json:"unitsSwapped"`
	UnitsReceived     decimal.Decimal `json:"unitsReceived"`
	FinalValue        decimal.Decimal `json:"finalValue"`
	NetSpreadPercent  decimal.Decimal `json:"netSpreadPercent"`
	Diagnosis         Diagnosis       `json:"diagnosis"`
	InsufficientUnits bool            `json:"insufficientUnits"`
}
