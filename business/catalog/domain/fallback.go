// Package domain holds the asset catalog model and its bootstrap fixture.
package domain

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"

	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
)

//go:embed fallback.toml
var defaultFallbackTOML []byte

// Entry is the known asset set of one exchange.
type Entry struct {
	Exchange pricing.Exchange `json:"exchange"`
	Assets   []asset.Symbol   `json:"assets"`
}

// Fallback is the static per-exchange asset list returned before the durable
// store answers. It is immutable once built.
type Fallback struct {
	lists map[pricing.Exchange][]asset.Symbol
}

type fallbackFile struct {
	Exchange []struct {
		Name   string   `toml:"name"`
		Assets []string `toml:"assets"`
		SameAs string   `toml:"same_as"`
	} `toml:"exchange"`
}

// DefaultFallback returns the embedded bootstrap lists.
func DefaultFallback() Fallback {
	fb, err := ParseFallback(defaultFallbackTOML)
	if err != nil {
		panic("catalog: embedded fallback: " + err.Error())
	}
	return fb
}

// ParseFallback decodes a TOML fixture. Every exchange must be known and every
// same_as must point at an exchange with an explicit list.
func ParseFallback(data []byte) (Fallback, error) {
	var file fallbackFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return Fallback{}, fmt.Errorf("decode fallback: %w", err)
	}

	lists := make(map[pricing.Exchange][]asset.Symbol)
	aliases := make(map[pricing.Exchange]pricing.Exchange)

	for _, e := range file.Exchange {
		ex, err := pricing.ParseExchange(e.Name)
		if err != nil {
			return Fallback{}, err
		}
		if e.SameAs != "" {
			target, err := pricing.ParseExchange(e.SameAs)
			if err != nil {
				return Fallback{}, err
			}
			aliases[ex] = target
			continue
		}
		symbols := make([]asset.Symbol, 0, len(e.Assets))
		for _, raw := range e.Assets {
			s, err := asset.Normalize(raw)
			if err != nil {
				return Fallback{}, fmt.Errorf("%s: %w", ex, err)
			}
			symbols = append(symbols, s)
		}
		lists[ex] = symbols
	}

	for ex, target := range aliases {
		list, ok := lists[target]
		if !ok {
			return Fallback{}, fmt.Errorf("%s: same_as %s has no asset list", ex, target)
		}
		lists[ex] = list
	}

	return Fallback{lists: lists}, nil
}

// NewFallback builds a Fallback from literal lists. Intended for tests.
func NewFallback(lists map[pricing.Exchange][]string) Fallback {
	out := make(map[pricing.Exchange][]asset.Symbol, len(lists))
	for ex, raw := range lists {
		symbols := make([]asset.Symbol, 0, len(raw))
		for _, r := range raw {
			symbols = append(symbols, asset.MustNormalize(r))
		}
		out[ex] = symbols
	}
	return Fallback{lists: out}
}

// Assets returns a sorted copy of the exchange's list.
func (f Fallback) Assets(exchange pricing.Exchange) ([]asset.Symbol, bool) {
	list, ok := f.lists[exchange]
	if !ok {
		return nil, false
	}
	return Sorted(list), true
}

// Sorted returns a sorted copy of symbols.
func Sorted(symbols []asset.Symbol) []asset.Symbol {
	out := make([]asset.Symbol, 0, len(symbols))
	for _, s := range asset.SortedStrings(symbols) {
		out = append(out, asset.Symbol(s))
	}
	return out
}

// NeedsReconcile reports whether stored lacks the fallback entries: it is
// smaller than fallback or shares none of its symbols.
func NeedsReconcile(stored []string, fallback []asset.Symbol) bool {
	if len(stored) < len(fallback) {
		return true
	}
	for _, s := range fallback {
		if asset.ContainsFold(stored, s) {
			return false
		}
	}
	return len(fallback) > 0
}

// Union appends to stored every fallback symbol it lacks, ignoring case.
// Stored order is kept.
func Union(stored []string, fallback []asset.Symbol) []string {
	out := make([]string, len(stored), len(stored)+len(fallback))
	copy(out, stored)
	for _, s := range fallback {
		if !asset.ContainsFold(out, s) {
			out = append(out, s.String())
		}
	}
	return out
}
