package domain

import (
	"errors"
	"slices"
	"testing"
)

func TestCompatibility(t *testing.T) {
	tests := []struct {
		name       string
		withdrawal []string
		deposit    []string
		wantCommon []string
		wantOK     bool
		wantReason string
	}{
		{
			name:       "single common network",
			withdrawal: []string{"ERC20", "BEP20"},
			deposit:    []string{"ERC20"},
			wantCommon: []string{"ERC20"},
			wantOK:     true,
			wantReason: "Compatible via ERC20 network",
		},
		{
			name:       "two common networks keep withdrawal order",
			withdrawal: []string{"Bitcoin", "Lightning", "BEP20"},
			deposit:    []string{"BEP20", "ERC20", "Bitcoin"},
			wantCommon: []string{"Bitcoin", "BEP20"},
			wantOK:     true,
			wantReason: "Compatible via Bitcoin and BEP20 networks",
		},
		{
			name:       "three common networks",
			withdrawal: []string{"A", "B", "C"},
			deposit:    []string{"C", "B", "A"},
			wantCommon: []string{"A", "B", "C"},
			wantOK:     true,
			wantReason: "Compatible via A, B and C networks",
		},
		{
			name:       "case sensitive",
			withdrawal: []string{"erc20"},
			deposit:    []string{"ERC20"},
			wantCommon: []string{},
			wantOK:     false,
			wantReason: "Incompatible: no common deposit and withdrawal networks",
		},
		{
			name:       "empty side",
			withdrawal: nil,
			deposit:    []string{"ERC20"},
			wantCommon: []string{},
			wantOK:     false,
			wantReason: "Incompatible: no common deposit and withdrawal networks",
		},
		{
			name:       "duplicates collapse",
			withdrawal: []string{"ERC20", "ERC20"},
			deposit:    []string{"ERC20"},
			wantCommon: []string{"ERC20"},
			wantOK:     true,
			wantReason: "Compatible via ERC20 network",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compatibility(tt.withdrawal, tt.deposit)
			if got.IsCompatible != tt.wantOK {
				t.Errorf("IsCompatible = %v, want %v", got.IsCompatible, tt.wantOK)
			}
			if !slices.Equal(got.CommonNetworks, tt.wantCommon) {
				t.Errorf("CommonNetworks = %v, want %v", got.CommonNetworks, tt.wantCommon)
			}
			if got.Reasoning != tt.wantReason {
				t.Errorf("Reasoning = %q, want %q", got.Reasoning, tt.wantReason)
			}
		})
	}
}

func TestNetworkSet_Main(t *testing.T) {
	tests := []struct {
		set  NetworkSet
		want string
	}{
		{NetworkSet{Withdrawal: []string{"BEP20", "ERC20"}, Deposit: []string{"ERC20"}}, "BEP20"},
		{NetworkSet{Deposit: []string{"TRC20"}}, "TRC20"},
		{NetworkSet{}, ""},
	}
	for _, tt := range tests {
		if got := tt.set.Main(); got != tt.want {
			t.Errorf("Main(%+v) = %q, want %q", tt.set, got, tt.want)
		}
	}
}

func TestLookupFailed(t *testing.T) {
	got := LookupFailed(errors.New("boom"))
	if got.IsCompatible || len(got.CommonNetworks) != 0 {
		t.Errorf("unexpected result %+v", got)
	}
	if got.Reasoning != "network lookup failed: boom" {
		t.Errorf("Reasoning = %q", got.Reasoning)
	}
}
