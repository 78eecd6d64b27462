package domain

import (
	"encoding/json"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/fd1az/arbitrage-evaluator/internal/asset"
)

// RouteQuoteRequest asks an aggregator for a swap or bridge route.
// Tokens are symbols known to the registry or hex contract addresses.
type RouteQuoteRequest struct {
	FromChain uint64
	ToChain   uint64
	FromToken string
	ToToken   string
	Amount    decimal.Decimal // human units of FromToken
}

// RouteQuote is an aggregator's best route for a RouteQuoteRequest.
type RouteQuote struct {
	FromToken   asset.Token     `json:"-"`
	ToToken     asset.Token     `json:"-"`
	FromAmount  *big.Int        `json:"fromAmount"`
	ToAmount    *big.Int        `json:"toAmount"`
	ToAmountMin *big.Int        `json:"toAmountMin"`
	Output      decimal.Decimal `json:"output"`
	Tool        string          `json:"tool"`
	Raw         json.RawMessage `json:"raw"`
}

// EffectiveRate is output units received per input unit.
func (q RouteQuote) EffectiveRate() decimal.Decimal {
	in := q.FromToken.FromBaseUnits(q.FromAmount)
	if in.IsZero() {
		return decimal.Zero
	}
	return q.Output.Div(in)
}
