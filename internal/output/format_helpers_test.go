package output

import (
	"testing"

	"github.com/shopspring/decimal"

	money "github.com/taxportal/filing-engine/pkg/decimal"
)

func TestFormatCurrency(t *testing.T) {
	v := money.NewMoney(1234567.891)
	got := FormatCurrency(v)
	want := "₹12,34,567.89"
	if got != want {
		t.Errorf("FormatCurrency(%v) = %q, want %q", v, got, want)
	}
}

func TestFormatPercentage(t *testing.T) {
	v := decimal.NewFromFloat(12.3456)
	got := FormatPercentage(v)
	want := "12.35%"
	if got != want {
		t.Errorf("FormatPercentage(%v) = %q, want %q", v, got, want)
	}
}

func TestFormatRate(t *testing.T) {
	got := FormatRate(decimal.RequireFromString("0.0624"))
	if got != "6.24%" {
		t.Errorf("FormatRate = %q, want 6.24%%", got)
	}
}
