// Package asset models tradeable symbols and on-chain tokens.
//
// Symbols are exchange-facing tickers compared case-insensitively.
// Tokens are ERC20 (or native) contracts identified by chain and address,
// with amounts carried as big.Int base units.
package asset

import (
	"slices"
	"strings"

	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
)

// Symbol is an upper-cased, trimmed ticker such as "JASMY".
type Symbol string

// Normalize upper-cases and trims raw and drops a "/QUOTE" suffix, so
// "jasmy/usdt" becomes "JASMY". An empty result is an INVALID_ASSET error.
func Normalize(raw string) (Symbol, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if i := strings.Index(s, "/"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		return "", apperror.Validation(apperror.CodeInvalidAsset, "empty asset symbol")
	}
	return Symbol(s), nil
}

// MustNormalize is Normalize for literals.
func MustNormalize(raw string) Symbol {
	s, err := Normalize(raw)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Symbol) String() string {
	return string(s)
}

// EqualFold compares case-insensitively.
func (s Symbol) EqualFold(other string) bool {
	return strings.EqualFold(string(s), strings.TrimSpace(other))
}

// ContainsFold reports whether list holds s, ignoring case.
func ContainsFold(list []string, s Symbol) bool {
	return slices.ContainsFunc(list, func(v string) bool { return s.EqualFold(v) })
}

// SortedStrings returns the symbols as a sorted string slice.
func SortedStrings(symbols []Symbol) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = string(s)
	}
	slices.Sort(out)
	return out
}
