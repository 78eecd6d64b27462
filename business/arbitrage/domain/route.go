// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
)

// Mode selects the route arithmetic.
type Mode int

const (
	// ModeSingleAsset buys one asset on A and sells the same asset on B.
	ModeSingleAsset Mode = 1
	// ModeTriangulation buys asset A, values it in USDT, and buys asset B with that value.
	ModeTriangulation Mode = 2
	// ModeSimpleSpread subtracts both fees from the raw price spread.
	ModeSimpleSpread Mode = 3
)

// ParseMode accepts 1, 2 or 3.
func ParseMode(n int) (Mode, error) {
	m := Mode(n)
	switch m {
	case ModeSingleAsset, ModeTriangulation, ModeSimpleSpread:
		return m, nil
	}
	return 0, apperror.Validation(apperror.CodeInvalidRoute, fmt.Sprintf("unknown mode %d", n))
}

func (m Mode) String() string {
	switch m {
	case ModeSingleAsset:
		return "single-asset"
	case ModeTriangulation:
		return "triangulation"
	case ModeSimpleSpread:
		return "simple-spread"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Leg is one buy or sell on one exchange. FeePercent is in percent units:
// 0.1 means 0.1%.
type Leg struct {
	Exchange   pricing.Exchange `json:"exchange"`
	Asset      asset.Symbol     `json:"asset"`
	Price      decimal.Decimal  `json:"price"`
	FeePercent decimal.Decimal  `json:"feePercent"`
}

// Route is an ordered pair of legs and the starting capital in USDT.
type Route struct {
	Mode    Mode            `json:"mode"`
	LegA    Leg             `json:"legA"`
	LegB    Leg             `json:"legB"`
	Capital decimal.Decimal `json:"capital"`
}

var hundred = decimal.NewFromInt(100)

// Evaluable reports whether the route has strictly positive prices and
// capital and fees in [0, 100). A route that is not evaluable yields no
// result rather than an error.
func (r Route) Evaluable() bool {
	if !r.LegA.Price.IsPositive() || !r.LegB.Price.IsPositive() || !r.Capital.IsPositive() {
		return false
	}
	for _, fee := range []decimal.Decimal{r.LegA.FeePercent, r.LegB.FeePercent} {
		if fee.IsNegative() || fee.GreaterThanOrEqual(hundred) {
			return false
		}
	}
	return true
}

// Direction returns the transfer direction of the route.
func (r Route) Direction() Direction {
	return Direction{From: r.LegA.Exchange, To: r.LegB.Exchange}
}
