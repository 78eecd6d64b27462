package domain

import (
	"github.com/shopspring/decimal"
)

// Fee arithmetic. Fees travel in percent units and become fractions only here.

// FeeMultiplier returns 1 - feePercent/100.
func FeeMultiplier(feePercent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Sub(feePercent.Div(hundred))
}

// ApplyFee returns amount after deducting feePercent.
func ApplyFee(amount, feePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(FeeMultiplier(feePercent))
}

// PercentChange returns (to/from - 1) * 100. from must be non-zero.
func PercentChange(from, to decimal.Decimal) decimal.Decimal {
	return to.Sub(from).Div(from).Mul(hundred)
}
