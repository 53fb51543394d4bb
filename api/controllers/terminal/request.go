package terminal

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldops/fieldops-pos/internal/cart"
	pkgerrors "github.com/fieldops/fieldops-pos/pkg/errors"
	"github.com/fieldops/fieldops-pos/pkg/types"
)

const invoiceDateLayout = "2006-01-02"

// A null or missing customer_id clears the active customer.
type setCustomerRequest struct {
	CustomerID types.ID `json:"customer_id"`
}

type loadCartRequest struct {
	Lines []loadLineRequest `json:"lines" validate:"dive"`
}

type loadLineRequest struct {
	ID              types.ID         `json:"id" validate:"required"`
	RemoteProductID types.ID         `json:"remote_product_id"`
	Name            string           `json:"name"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	PriceUnit       *decimal.Decimal `json:"price_unit"`
	Quantity        int              `json:"quantity" validate:"omitempty,gte=1"`
}

func (r loadCartRequest) toLines() []cart.Line {
	lines := make([]cart.Line, 0, len(r.Lines))
	for _, l := range r.Lines {
		price := decimal.Zero
		switch {
		case l.PriceUnit != nil:
			price = *l.PriceUnit
		case l.UnitPrice != nil:
			price = *l.UnitPrice
		}
		qty := l.Quantity
		if qty == 0 {
			qty = 1
		}
		lines = append(lines, cart.Line{
			ID:              l.ID,
			RemoteProductID: l.RemoteProductID,
			Name:            strings.TrimSpace(l.Name),
			UnitPrice:       price,
			Quantity:        qty,
		})
	}
	return lines
}

type checkoutRequest struct {
	PartnerID   int64  `json:"partner_id" validate:"omitempty,gt=0"`
	InvoiceDate string `json:"invoice_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r checkoutRequest) invoiceDate(now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.InvoiceDate)
	if raw == "" {
		return now, nil
	}
	parsed, err := time.Parse(invoiceDateLayout, raw)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invoice_date must be YYYY-MM-DD")
	}
	return parsed, nil
}
