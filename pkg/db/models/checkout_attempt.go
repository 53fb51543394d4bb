package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fieldops/fieldops-pos/pkg/enums"
)

// CheckoutAttempt is the reconciliation ledger row written for every checkout submission.
type CheckoutAttempt struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	TerminalID    string              `gorm:"column:terminal_id;not null;index"`
	OperatorID    string              `gorm:"column:operator_id;not null"`
	CustomerID    string              `gorm:"column:customer_id;not null"`
	PartnerID     int64               `gorm:"column:partner_id;not null"`
	Stage         enums.CheckoutStage `gorm:"column:stage;not null;index"`
	OrderID       *int64              `gorm:"column:order_id;uniqueIndex:ux_checkout_attempts_order"`
	InvoiceID     *int64              `gorm:"column:invoice_id"`
	LineCount     int                 `gorm:"column:line_count;not null;default:0"`
	Subtotal      decimal.Decimal     `gorm:"column:subtotal;type:numeric(14,3);not null"`
	TaxAmount     decimal.Decimal     `gorm:"column:tax_amount;type:numeric(14,3);not null"`
	GrandTotal    decimal.Decimal     `gorm:"column:grand_total;type:numeric(14,3);not null"`
	FailureReason *string             `gorm:"column:failure_reason"`
	CompletedAt   *time.Time          `gorm:"column:completed_at"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the ledger table name.
func (CheckoutAttempt) TableName() string {
	return "checkout_attempts"
}

// BeforeCreate assigns the primary key client-side so sqlite and postgres behave alike.
func (c *CheckoutAttempt) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Stage == "" {
		c.Stage = enums.CheckoutStagePending
	}
	return nil
}
