// Package domain models transfer networks and the compatibility of two legs.
package domain

import (
	"slices"
	"strings"
)

// SameExchangeReasoning is returned when both legs are on one exchange.
const SameExchangeReasoning = "same exchange, no transfer required"

// NetworkSet lists the networks an exchange supports for one asset. Empty
// slices mean the asset or its data is unavailable.
type NetworkSet struct {
	Deposit    []string `json:"depositNetworks"`
	Withdrawal []string `json:"withdrawalNetworks"`
}

// Main is the first withdrawal network, else the first deposit network, else "".
func (s NetworkSet) Main() string {
	if len(s.Withdrawal) > 0 {
		return s.Withdrawal[0]
	}
	if len(s.Deposit) > 0 {
		return s.Deposit[0]
	}
	return ""
}

// CompatibilityResult says whether funds can move from one exchange to another.
type CompatibilityResult struct {
	IsCompatible   bool     `json:"isCompatible"`
	CommonNetworks []string `json:"commonNetworks"`
	Reasoning      string   `json:"reasoning"`
}

// Intersect returns the withdrawal networks also present in deposit, in
// withdrawal order, without duplicates. Names are compared exactly.
func Intersect(withdrawal, deposit []string) []string {
	common := make([]string, 0)
	for _, n := range withdrawal {
		if slices.Contains(deposit, n) && !slices.Contains(common, n) {
			common = append(common, n)
		}
	}
	return common
}

// Compatibility builds the result for a cross-exchange transfer.
func Compatibility(withdrawal, deposit []string) CompatibilityResult {
	common := Intersect(withdrawal, deposit)
	return CompatibilityResult{
		IsCompatible:   len(common) > 0,
		CommonNetworks: common,
		Reasoning:      reasoning(common),
	}
}

// SameExchange is the result for a route that never leaves one exchange.
func SameExchange() CompatibilityResult {
	return CompatibilityResult{
		IsCompatible:   false,
		CommonNetworks: []string{},
		Reasoning:      SameExchangeReasoning,
	}
}

// LookupFailed degrades a failed network lookup to an incompatible result.
func LookupFailed(err error) CompatibilityResult {
	return CompatibilityResult{
		IsCompatible:   false,
		CommonNetworks: []string{},
		Reasoning:      "network lookup failed: " + err.Error(),
	}
}

func reasoning(common []string) string {
	switch len(common) {
	case 0:
		return "Incompatible: no common deposit and withdrawal networks"
	case 1:
		return "Compatible via " + common[0] + " network"
	default:
		head := strings.Join(common[:len(common)-1], ", ")
		return "Compatible via " + head + " and " + common[len(common)-1] + " networks"
	}
}
