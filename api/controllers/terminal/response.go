package terminal

import (
	"time"

	"github.com/fieldops/fieldops-pos/internal/cart"
	"github.com/fieldops/fieldops-pos/internal/checkout"
	"github.com/fieldops/fieldops-pos/pkg/types"
)

type lineResponse struct {
	ID              types.ID `json:"id"`
	RemoteProductID types.ID `json:"remote_product_id,omitempty"`
	Name            string   `json:"name"`
	UnitPrice       string   `json:"unit_price"`
	Quantity        int      `json:"quantity"`
	Subtotal        string   `json:"subtotal"`
}

type totalsResponse struct {
	Subtotal    string `json:"subtotal"`
	TaxAmount   string `json:"tax_amount"`
	TotalAmount string `json:"total_amount"`
}

type cartResponse struct {
	CustomerID types.ID       `json:"customer_id,omitempty"`
	Lines      []lineResponse `json:"lines"`
	totalsResponse
}

type receiptResponse struct {
	AttemptID  string         `json:"attempt_id"`
	OrderID    int64          `json:"order_id"`
	InvoiceID  int64          `json:"invoice_id"`
	CustomerID types.ID       `json:"customer_id"`
	PartnerID  int64          `json:"partner_id"`
	Lines      []lineResponse `json:"lines"`
	totalsResponse
}

type draftResponse struct {
	CustomerID types.ID       `json:"customer_id"`
	Lines      []lineResponse `json:"lines"`
	SavedAt    time.Time      `json:"saved_at"`
}

func newLineResponse(line cart.Line) lineResponse {
	return lineResponse{
		ID:              line.ID,
		RemoteProductID: line.RemoteProductID,
		Name:            line.Name,
		UnitPrice:       checkout.FormatAmount(line.UnitPrice),
		Quantity:        line.Quantity,
		Subtotal:        checkout.FormatAmount(line.Subtotal),
	}
}

func newLineResponses(lines []cart.Line) []lineResponse {
	out := make([]lineResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, newLineResponse(line))
	}
	return out
}

func newTotalsResponse(t checkout.Totals) totalsResponse {
	return totalsResponse{
		Subtotal:    checkout.FormatAmount(t.Subtotal),
		TaxAmount:   checkout.FormatAmount(t.TaxAmount),
		TotalAmount: checkout.FormatAmount(t.GrandTotal),
	}
}

func newReceiptResponse(r *checkout.Receipt) receiptResponse {
	return receiptResponse{
		AttemptID:      r.AttemptID.String(),
		OrderID:        r.OrderID,
		InvoiceID:      r.InvoiceID,
		CustomerID:     r.CustomerID,
		PartnerID:      r.PartnerID,
		Lines:          newLineResponses(r.Lines),
		totalsResponse: newTotalsResponse(r.Totals),
	}
}

func newDraftResponse(d *cart.Draft) draftResponse {
	return draftResponse{
		CustomerID: d.CustomerID,
		Lines:      newLineResponses(d.Lines),
		SavedAt:    d.SavedAt,
	}
}
