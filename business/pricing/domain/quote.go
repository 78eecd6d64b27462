package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a validated last-traded price for one pair on one exchange.
type Quote struct {
	Exchange    Exchange        `json:"exchange"`
	Asset       string          `json:"asset"`
	Counterpart string          `json:"counterpart"`
	Pair        string          `json:"pair"`
	Price       decimal.Decimal `json:"price"`
	FetchedAt   time.Time       `json:"fetchedAt"`
}

// Age is the time since the quote was fetched.
func (q Quote) Age() time.Duration {
	return time.Since(q.FetchedAt)
}

// QuoteRequest identifies a price to fetch.
type QuoteRequest struct {
	Exchange    Exchange
	Asset       string
	Counterpart string
}
