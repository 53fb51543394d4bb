package cart

import (
	"github.com/shopspring/decimal"

	"github.com/fieldops/fieldops-pos/pkg/types"
)

// Line is one product selected for purchase by a customer.
type Line struct {
	ID              types.ID        `json:"id"`
	RemoteProductID types.ID        `json:"remote_product_id,omitempty"`
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int             `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// withSubtotal returns the line with Subtotal recomputed from UnitPrice and Quantity.
func (l Line) withSubtotal() Line {
	l.Subtotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	return l
}

// ProductInput is a product as handed over by the client. Either price field may be
// present; Quantity is accepted but ignored.
type ProductInput struct {
	ID              types.ID         `json:"id" validate:"required"`
	RemoteProductID types.ID         `json:"remote_product_id"`
	Name            string           `json:"name"`
	Price           *decimal.Decimal `json:"price"`
	PriceUnit       *decimal.Decimal `json:"price_unit"`
	Quantity        *int             `json:"quantity"`
}

// UnitPrice resolves the price: price_unit, then price, then zero.
func (p ProductInput) UnitPrice() decimal.Decimal {
	switch {
	case p.PriceUnit != nil:
		return *p.PriceUnit
	case p.Price != nil:
		return *p.Price
	default:
		return decimal.Zero
	}
}

// Normalize builds the cart line stored by AddProduct.
func (p ProductInput) Normalize() Line {
	return Line{
		ID:              p.ID,
		RemoteProductID: p.RemoteProductID,
		Name:            p.Name,
		UnitPrice:       p.UnitPrice(),
		Quantity:        1,
	}.withSubtotal()
}

func copyLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
