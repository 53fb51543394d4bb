package odoo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	modelSaleOrder   = "sale.order"
	modelAccountMove = "account.move"

	invoiceDateLayout = "2006-01-02"

	// x2many command codes
	commandCreate = 0
	commandLink   = 4
)

// OrderLine is one product line sent with an order or invoice.
type OrderLine struct {
	ProductID int64
	Name      string
	Quantity  int
	PriceUnit decimal.Decimal
}

// OrderRequest is the payload for CreateOrder.
type OrderRequest struct {
	PartnerID int64
	Lines     []OrderLine
}

// InvoiceRequest is the payload for CreateInvoice. A zero InvoiceDate lets the ERP pick today.
type InvoiceRequest struct {
	PartnerID   int64
	Lines       []OrderLine
	InvoiceDate time.Time
}

// CreateOrder creates a draft sale order and returns its id.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (int64, error) {
	values := map[string]any{
		"partner_id": req.PartnerID,
		"order_line": lineCommands(req.Lines),
	}
	var id int64
	if err := c.ExecuteKW(ctx, modelSaleOrder, "create", []any{values}, nil, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// ConfirmOrder moves a draft order to the confirmed state.
func (c *Client) ConfirmOrder(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return fmt.Errorf("odoo: order id is required")
	}
	return c.ExecuteKW(ctx, modelSaleOrder, "action_confirm", []any{[]int64{orderID}}, nil, nil)
}

// CreateInvoice creates a customer invoice and returns its id.
func (c *Client) CreateInvoice(ctx context.Context, req InvoiceRequest) (int64, error) {
	values := map[string]any{
		"move_type":        "out_invoice",
		"partner_id":       req.PartnerID,
		"invoice_line_ids": lineCommands(req.Lines),
	}
	if !req.InvoiceDate.IsZero() {
		values["invoice_date"] = req.InvoiceDate.Format(invoiceDateLayout)
	}
	var id int64
	if err := c.ExecuteKW(ctx, modelAccountMove, "create", []any{values}, nil, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// LinkInvoiceToOrder attaches an existing invoice to a sale order.
func (c *Client) LinkInvoiceToOrder(ctx context.Context, orderID, invoiceID int64) error {
	if orderID <= 0 || invoiceID <= 0 {
		return fmt.Errorf("odoo: order id and invoice id are required")
	}
	values := map[string]any{
		"invoice_ids": []any{[]any{commandLink, invoiceID}},
	}
	return c.ExecuteKW(ctx, modelSaleOrder, "write", []any{[]int64{orderID}, values}, nil, nil)
}

func lineCommands(lines []OrderLine) []any {
	commands := make([]any, 0, len(lines))
	for _, line := range lines {
		commands = append(commands, []any{commandCreate, 0, map[string]any{
			"product_id": line.ProductID,
			"name":       line.Name,
			"quantity":   line.Quantity,
			"price_unit": line.PriceUnit.InexactFloat64(),
		}})
	}
	return commands
}
