// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"github.com/shopspring/decimal"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Evaluator computes the outcome of a route. It is pure and safe for
// concurrent use.
type Evaluator struct {
	epsilon decimal.Decimal
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithEpsilon overrides the Neutral dead zone, in percentage points.
func WithEpsilon(eps decimal.Decimal) EvaluatorOption {
	return func(e *Evaluator) {
		e.epsilon = eps.Abs()
	}
}

// NewEvaluator creates an Evaluator with the default epsilon.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{epsilon: domain.DefaultEpsilon}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate returns nil when the route has a non-positive price or capital or
// a fee outside [0, 100).
func (e *Evaluator) Evaluate(route domain.Route) *domain.Result {
	if !route.Evaluable() {
		return nil
	}

	var res *domain.Result
	switch route.Mode {
	case domain.ModeSingleAsset:
		res = singleAsset(route)
	case domain.ModeTriangulation:
		res = triangulation(route)
	case domain.ModeSimpleSpread:
		res = simpleSpread(route)
	default:
		return nil
	}

	res.Mode = route.Mode
	res.Diagnosis = domain.Classify(res.NetSpreadPercent, e.epsilon)
	res.BreakEven = breakEven(route.LegA.Price, route.LegB.Price)
	return res
}

func singleAsset(r domain.Route) *domain.Result {
	pA, pB := r.LegA.Price, r.LegB.Price
	mA, mB := domain.FeeMultiplier(r.LegA.FeePercent), domain.FeeMultiplier(r.LegB.FeePercent)

	bought := r.Capital.Div(pA).Mul(mA)
	// Multiply before dividing so equal prices round-trip exactly.
	final := r.Capital.Mul(pB).Div(pA).Mul(mA).Mul(mB)

	return &domain.Result{
		AmountAfterLeg1:  bought,
		AmountAfterLeg2:  final,
		FinalValue:       final,
		NetSpreadPercent: domain.PercentChange(r.Capital, final),
		Profit:           final.Sub(r.Capital),
	}
}

func triangulation(r domain.Route) *domain.Result {
	pA, pB := r.LegA.Price, r.LegB.Price
	mA, mB := domain.FeeMultiplier(r.LegA.FeePercent), domain.FeeMultiplier(r.LegB.FeePercent)

	amountA := r.Capital.Div(pA).Mul(mA)
	valueInUSDT := r.Capital.Mul(mA)
	amountB := valueInUSDT.Div(pB).Mul(mB)
	final := valueInUSDT.Mul(mB)

	return &domain.Result{
		AmountAfterLeg1:  amountA,
		AmountAfterLeg2:  amountB,
		FinalValue:       final,
		NetSpreadPercent: domain.PercentChange(r.Capital, final),
		Profit:           final.Sub(r.Capital),
	}
}

func simpleSpread(r domain.Route) *domain.Result {
	pA, pB := r.LegA.Price, r.LegB.Price

	spread := domain.PercentChange(pA, pB).Sub(r.LegA.FeePercent.Add(r.LegB.FeePercent))
	profit := r.Capital.Mul(spread).Div(hundred)
	units := r.Capital.Div(pA)

	return &domain.Result{
		AmountAfterLeg1:  units,
		AmountAfterLeg2:  units.Mul(pB),
		FinalValue:       r.Capital.Add(profit),
		NetSpreadPercent: spread,
		Profit:           profit,
	}
}

func breakEven(pA, pB decimal.Decimal) *domain.BreakEven {
	factor := pA.Div(pB)
	equivalent := pB.Mul(one.Div(factor))
	return &domain.BreakEven{
		ConversionFactor:     factor,
		BreakEvenPriceB:      pA.Div(factor),
		PriceBEquivalent:     equivalent,
		DeltaRelativePercent: domain.PercentChange(pA, equivalent),
	}
}

// Parity converts referencePrice through factor and compares it with the
// directly quoted price. It returns nil when directPrice is not positive.
func (e *Evaluator) Parity(referencePrice, factor, directPrice decimal.Decimal) *domain.Parity {
	if !directPrice.IsPositive() || !referencePrice.IsPositive() || !factor.IsPositive() {
		return nil
	}
	equivalent := referencePrice.Mul(factor)
	return &domain.Parity{
		Equivalent:   equivalent,
		DeltaPercent: domain.PercentChange(directPrice, equivalent),
	}
}

// FixedFeeSwap buys on leg A, pays fixedFeeUnits of the bought asset to move
// it, converts the remainder by factor into leg B's asset and sells on leg B.
// The route's Mode is ignored. When the fixed fee exceeds the units held the
// swap is not viable and reports a -100% spread.
func (e *Evaluator) FixedFeeSwap(route domain.Route, fixedFeeUnits, factor decimal.Decimal) *domain.SwapResult {
	if !route.Evaluable() || !factor.IsPositive() || fixedFeeUnits.IsNegative() {
		return nil
	}

	bought := route.Capital.Div(route.LegA.Price)
	afterFee := domain.ApplyFee(bought, route.LegA.FeePercent)
	swapped := afterFee.Sub(fixedFeeUnits)

	res := &domain.SwapResult{
		UnitsBought:   bought,
		UnitsAfterFee: afterFee,
		UnitsSwapped:  swapped,
	}

	if swapped.IsNegative() {
		res.InsufficientUnits = true
		res.NetSpreadPercent = hundred.Neg()
		res.Diagnosis = domain.Negative
		return res
	}

	res.UnitsReceived = swapped.Mul(factor)
	res.FinalValue = domain.ApplyFee(res.UnitsReceived.Mul(route.LegB.Price), route.LegB.FeePercent)
	res.NetSpreadPercent = domain.PercentChange(route.Capital, res.FinalValue)
	res.Diagnosis = domain.Classify(res.NetSpreadPercent, domain.ViabilityThreshold)
	return res
}
