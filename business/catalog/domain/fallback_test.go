package domain

import (
	"slices"
	"testing"

	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
)

func TestDefaultFallback(t *testing.T) {
	fb := DefaultFallback()

	for _, ex := range pricing.Exchanges() {
		list, ok := fb.Assets(ex)
		if !ok {
			t.Errorf("%s: no fallback list", ex)
			continue
		}
		if len(list) != 10 {
			t.Errorf("%s: got %d assets, want 10", ex, len(list))
		}
		if !slices.IsSorted(list) {
			t.Errorf("%s: list not sorted: %v", ex, list)
		}
	}

	mexc, _ := fb.Assets(pricing.MEXC)
	binance, _ := fb.Assets(pricing.Binance)
	if !slices.Equal(mexc, binance) {
		t.Errorf("Binance list %v, want MEXC list %v", binance, mexc)
	}
}

func TestParseFallback_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown exchange", "[[exchange]]\nname = \"Kraken\"\nassets = [\"BTC\"]\n"},
		{"dangling alias", "[[exchange]]\nname = \"Binance\"\nsame_as = \"MEXC\"\n"},
		{"empty symbol", "[[exchange]]\nname = \"MEXC\"\nassets = [\"  \"]\n"},
		{"bad toml", "[[exchange]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFallback([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNeedsReconcile(t *testing.T) {
	fallback := []asset.Symbol{"BTC", "ETH"}

	tests := []struct {
		name   string
		stored []string
		want   bool
	}{
		{"empty store", nil, true},
		{"smaller", []string{"BTC"}, true},
		{"disjoint", []string{"XRP", "LTC"}, true},
		{"overlapping", []string{"btc", "XRP"}, false},
		{"superset", []string{"BTC", "ETH", "PEPE"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsReconcile(tt.stored, fallback); got != tt.want {
				t.Errorf("NeedsReconcile(%v) = %v, want %v", tt.stored, got, tt.want)
			}
		})
	}
}

func TestUnion(t *testing.T) {
	got := Union([]string{"pepe", "btc"}, []asset.Symbol{"BTC", "ETH"})
	want := []string{"pepe", "btc", "ETH"}
	if !slices.Equal(got, want) {
		t.Errorf("Union = %v, want %v", got, want)
	}
}
