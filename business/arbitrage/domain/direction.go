package domain

import (
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
)

// Direction is where funds move: bought on From, realized on To.
type Direction struct {
	From pricing.Exchange `json:"from"`
	To   pricing.Exchange `json:"to"`
}

// SameExchange reports whether no transfer is needed.
func (d Direction) SameExchange() bool {
	return d.From == d.To
}

// String returns a human-readable description of the direction.
func (d Direction) String() string {
	if d.SameExchange() {
		return string(d.From) + " (same exchange)"
	}
	return string(d.From) + " → " + string(d.To)
}
