// Package simulated serves transfer networks from a fixed table.
package simulated

import (
	"context"
	_ "embed"
	"fmt"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/fd1az/arbitrage-evaluator/business/network/app"
	"github.com/fd1az/arbitrage-evaluator/business/network/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
)

//go:embed networks.toml
var defaultTable []byte

// Source implements app.NetworkSource over an in-memory table.
type Source struct {
	table map[asset.Symbol]map[pricing.Exchange][]string
}

var _ app.NetworkSource = (*Source)(nil)

// NewSource loads the embedded table.
func NewSource() *Source {
	s, err := Parse(defaultTable)
	if err != nil {
		panic("simulated networks: " + err.Error())
	}
	return s
}

// Parse decodes a table of the form [ASSET] Exchange = ["NET", ...].
func Parse(data []byte) (*Source, error) {
	var raw map[string]map[string][]string
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("decode networks: %w", err)
	}

	table := make(map[asset.Symbol]map[pricing.Exchange][]string, len(raw))
	for rawAsset, byExchange := range raw {
		symbol, err := asset.Normalize(rawAsset)
		if err != nil {
			return nil, err
		}
		row := make(map[pricing.Exchange][]string, len(byExchange))
		for rawExchange, networks := range byExchange {
			ex, err := pricing.ParseExchange(rawExchange)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", symbol, err)
			}
			row[ex] = networks
		}
		table[symbol] = row
	}
	return &Source{table: table}, nil
}

// AssetNetworks returns the table row, empty when absent.
func (s *Source) AssetNetworks(_ context.Context, exchange pricing.Exchange, symbol asset.Symbol) (domain.NetworkSet, error) {
	networks := s.table[symbol][exchange]
	return domain.NetworkSet{
		Deposit:    slices.Clone(networks),
		Withdrawal: slices.Clone(networks),
	}, nil
}
