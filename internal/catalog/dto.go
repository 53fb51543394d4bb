package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/fieldops/fieldops-pos/pkg/odoo"
)

// Customer is a dropdown entry for the customer picker.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Product is a dropdown or detail entry for the product picker.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code,omitempty"`
	ListPrice decimal.Decimal `json:"list_price"`
	Category  string          `json:"category,omitempty"`
	Unit      string          `json:"unit,omitempty"`
}

type partnerRecord struct {
	ID    int64       `json:"id"`
	Name  odoo.String `json:"name"`
	Email odoo.String `json:"email"`
	Phone odoo.String `json:"phone"`
}

func (r partnerRecord) toDTO() Customer {
	return Customer{
		ID:    r.ID,
		Name:  string(r.Name),
		Email: string(r.Email),
		Phone: string(r.Phone),
	}
}

type productRecord struct {
	ID          int64           `json:"id"`
	Name        odoo.String     `json:"name"`
	DefaultCode odoo.String     `json:"default_code"`
	ListPrice   decimal.Decimal `json:"list_price"`
	Category    odoo.Many2One   `json:"categ_id"`
	Unit        odoo.Many2One   `json:"uom_id"`
}

func (r productRecord) toDTO() Product {
	return Product{
		ID:        r.ID,
		Name:      string(r.Name),
		Code:      string(r.DefaultCode),
		ListPrice: r.ListPrice,
		Category:  r.Category.Name,
		Unit:      r.Unit.Name,
	}
}
