// Package domain contains the core domain types for the pricing context.
package domain

import (
	"strings"

	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
)

// Exchange is one of the supported centralized venues.
type Exchange string

const (
	MEXC     Exchange = "MEXC"
	Bitmart  Exchange = "Bitmart"
	GateIO   Exchange = "Gate.io"
	Poloniex Exchange = "Poloniex"
	Binance  Exchange = "Binance"
)

// DefaultCounterpart is the quote asset used when a request omits one.
const DefaultCounterpart = "USDT"

var exchanges = []Exchange{MEXC, Bitmart, GateIO, Poloniex, Binance}

var aliases = map[string]Exchange{
	"mexc":     MEXC,
	"bitmart":  Bitmart,
	"gate.io":  GateIO,
	"gateio":   GateIO,
	"gate":     GateIO,
	"poloniex": Poloniex,
	"binance":  Binance,
}

// Exchanges returns every supported exchange in display order.
func Exchanges() []Exchange {
	out := make([]Exchange, len(exchanges))
	copy(out, exchanges)
	return out
}

// ParseExchange resolves a case-insensitive exchange name.
func ParseExchange(name string) (Exchange, error) {
	if ex, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return ex, nil
	}
	return "", apperror.UnknownExchange(name)
}

// Valid reports whether e is a supported exchange.
func (e Exchange) Valid() bool {
	for _, ex := range exchanges {
		if ex == e {
			return true
		}
	}
	return false
}

func (e Exchange) String() string {
	return string(e)
}

// Slug is a lowercase identifier safe for metric labels and storage keys.
func (e Exchange) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(e)), ".", "")
}

// pairSeparator is "" for concatenated symbols (JASMYUSDT) and "_" for JASMY_USDT.
func (e Exchange) pairSeparator() string {
	switch e {
	case Bitmart, GateIO, Poloniex:
		return "_"
	default:
		return ""
	}
}
