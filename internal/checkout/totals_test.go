package checkout

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fieldops/fieldops-pos/internal/cart"
)

func TestComputeTotals(t *testing.T) {
	t.Parallel()

	lines := []cart.Line{
		{ID: "1", UnitPrice: decimal.RequireFromString("12.500"), Quantity: 1},
		{ID: "2", UnitPrice: decimal.RequireFromString("0.125"), Quantity: 4},
	}

	cases := []struct {
		name     string
		rate     string
		subtotal string
		tax      string
		total    string
	}{
		{name: "no tax", rate: "0", subtotal: "13.000", tax: "0.000", total: "13.000"},
		{name: "five percent", rate: "0.05", subtotal: "13.000", tax: "0.650", total: "13.650"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			totals := ComputeTotals(lines, decimal.RequireFromString(tc.rate))
			if got := FormatAmount(totals.Subtotal); got != tc.subtotal {
				t.Fatalf("subtotal: expected %s, got %s", tc.subtotal, got)
			}
			if got := FormatAmount(totals.TaxAmount); got != tc.tax {
				t.Fatalf("tax: expected %s, got %s", tc.tax, got)
			}
			if got := FormatAmount(totals.GrandTotal); got != tc.total {
				t.Fatalf("total: expected %s, got %s", tc.total, got)
			}
		})
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	t.Parallel()

	totals := ComputeTotals(nil, decimal.RequireFromString("0.05"))
	if !totals.GrandTotal.IsZero() {
		t.Fatalf("expected zero total, got %s", totals.GrandTotal)
	}
}

func TestFormatAmountTruncates(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"12.5":    "12.500",
		"10":      "10.000",
		"1.23456": "1.234",
		"0.0009":  "0.000",
		"-2.5559": "-2.555",
	}
	for in, want := range cases {
		if got := FormatAmount(decimal.RequireFromString(in)); got != want {
			t.Fatalf("FormatAmount(%s) = %s, want %s", in, got, want)
		}
	}
}
