package catalog

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/fieldops/fieldops-pos/pkg/errors"
	"github.com/fieldops/fieldops-pos/pkg/odoo"
)

const (
	partnerModel = "res.partner"
	productModel = "product.product"

	defaultLimit = 20
	maxLimit     = 100
)

var (
	partnerFields = []string{"id", "name", "email", "phone"}
	productFields = []string{"id", "name", "default_code", "list_price", "categ_id", "uom_id"}
)

// Records is the subset of the ERP client the catalog reads through.
type Records interface {
	SearchRead(ctx context.Context, model string, domain []any, opts odoo.SearchReadOptions, out any) error
	Read(ctx context.Context, model string, ids []int64, fields []string, out any) error
}

// Service exposes the customer and product lookups used to populate the terminal pickers.
type Service interface {
	ListCustomers(ctx context.Context, query string, limit int) ([]Customer, error)
	ListProducts(ctx context.Context, query string, limit int) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
}

type service struct {
	records Records
}

// NewService builds a catalog service backed by the ERP.
func NewService(records Records) (Service, error) {
	if records == nil {
		return nil, fmt.Errorf("erp records client required")
	}
	return &service{records: records}, nil
}

func (s *service) ListCustomers(ctx context.Context, query string, limit int) ([]Customer, error) {
	domain := []any{[]any{"customer_rank", ">", 0}}
	domain = append(domain, searchDomain(query, "name", "email")...)

	var rows []partnerRecord
	if err := s.records.SearchRead(ctx, partnerModel, domain, odoo.SearchReadOptions{
		Fields: partnerFields,
		Limit:  clampLimit(limit),
		Order:  "name asc",
	}, &rows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}

	out := make([]Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDTO())
	}
	return out, nil
}

func (s *service) ListProducts(ctx context.Context, query string, limit int) ([]Product, error) {
	domain := []any{[]any{"sale_ok", "=", true}}
	domain = append(domain, searchDomain(query, "name", "default_code")...)

	var rows []productRecord
	if err := s.records.SearchRead(ctx, productModel, domain, odoo.SearchReadOptions{
		Fields: productFields,
		Limit:  clampLimit(limit),
		Order:  "name asc",
	}, &rows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDTO())
	}
	return out, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}

	var rows []productRecord
	if err := s.records.Read(ctx, productModel, []int64{id}, productFields, &rows); err != nil {
		if odoo.IsMissingRecord(err) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not found", id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get product")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not found", id)
	}
	product := rows[0].toDTO()
	return &product, nil
}

// searchDomain ORs an ilike match of query across the given fields.
func searchDomain(query string, fields ...string) []any {
	query = strings.TrimSpace(query)
	if query == "" || len(fields) == 0 {
		return nil
	}
	out := make([]any, 0, 2*len(fields)-1)
	for i := 1; i < len(fields); i++ {
		out = append(out, "|")
	}
	for _, field := range fields {
		out = append(out, []any{field, "ilike", query})
	}
	return out
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	default:
		return limit
	}
}
