package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/fieldops/fieldops-pos/internal/cart"
)

// AmountPlaces is the number of fractional digits used for display amounts.
const AmountPlaces = 3

// Totals are the money figures of one checkout.
type Totals struct {
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeTotals sums UnitPrice*Quantity over lines and applies taxRate.
func ComputeTotals(lines []cart.Line, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  tax,
		GrandTotal: subtotal.Add(tax),
	}
}

// FormatAmount renders d with three decimals, truncating extra precision.
func FormatAmount(d decimal.Decimal) string {
	return d.Truncate(AmountPlaces).StringFixed(AmountPlaces)
}
