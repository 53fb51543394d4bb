package odoo

import (
	"context"
	"fmt"
)

// SearchReadOptions narrows a search_read call.
type SearchReadOptions struct {
	Fields []string
	Limit  int
	Offset int
	Order  string
}

// SearchRead returns records matching domain, decoded into out (a pointer to a slice).
func (c *Client) SearchRead(ctx context.Context, model string, domain []any, opts SearchReadOptions, out any) error {
	if domain == nil {
		domain = []any{}
	}
	kwargs := map[string]any{}
	if len(opts.Fields) > 0 {
		kwargs["fields"] = opts.Fields
	}
	if opts.Limit > 0 {
		kwargs["limit"] = opts.Limit
	}
	if opts.Offset > 0 {
		kwargs["offset"] = opts.Offset
	}
	if opts.Order != "" {
		kwargs["order"] = opts.Order
	}
	return c.ExecuteKW(ctx, model, "search_read", []any{domain}, kwargs, out)
}

// Read fetches records by id, decoded into out (a pointer to a slice).
func (c *Client) Read(ctx context.Context, model string, ids []int64, fields []string, out any) error {
	if len(ids) == 0 {
		return fmt.Errorf("odoo: at least one id is required")
	}
	kwargs := map[string]any{}
	if len(fields) > 0 {
		kwargs["fields"] = fields
	}
	return c.ExecuteKW(ctx, model, "read", []any{ids}, kwargs, out)
}
