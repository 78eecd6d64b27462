package domain

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
)

func TestParseMode(t *testing.T) {
	for _, n := range []int{1, 2, 3} {
		if _, err := ParseMode(n); err != nil {
			t.Errorf("ParseMode(%d) error = %v", n, err)
		}
	}
	_, err := ParseMode(4)
	if !apperror.IsCode(err, apperror.CodeInvalidRoute) {
		t.Errorf("ParseMode(4) error = %v, want INVALID_ROUTE", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		spread string
		want   Diagnosis
	}{
		{"0.0002", Positive},
		{"0.0001", Neutral},
		{"0", Neutral},
		{"-0.0001", Neutral},
		{"-0.0002", Negative},
		{"-100", Negative},
	}
	for _, tt := range tests {
		if got := Classify(decimal.RequireFromString(tt.spread), DefaultEpsilon); got != tt.want {
			t.Errorf("Classify(%s) = %s, want %s", tt.spread, got, tt.want)
		}
	}
}

func TestFeeArithmetic(t *testing.T) {
	if got := FeeMultiplier(decimal.RequireFromString("0.1")); !got.Equal(decimal.RequireFromString("0.999")) {
		t.Errorf("FeeMultiplier(0.1) = %s, want 0.999", got)
	}
	if got := ApplyFee(decimal.NewFromInt(2000), decimal.RequireFromString("0.5")); !got.Equal(decimal.NewFromInt(1990)) {
		t.Errorf("ApplyFee(2000, 0.5) = %s, want 1990", got)
	}
	if got := PercentChange(decimal.NewFromInt(100), decimal.NewFromInt(102)); !got.Equal(decimal.NewFromInt(2)) {
		t.Errorf("PercentChange(100, 102) = %s, want 2", got)
	}
}

func TestDirection(t *testing.T) {
	d := Direction{From: "MEXC", To: "MEXC"}
	if !d.SameExchange() {
		t.Error("SameExchange() = false for MEXC → MEXC")
	}
	d.To = "Gate.io"
	if d.String() != "MEXC → Gate.io" {
		t.Errorf("String() = %q", d.String())
	}
}
