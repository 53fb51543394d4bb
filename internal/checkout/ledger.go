package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/fieldops/fieldops-pos/pkg/db"
	"github.com/fieldops/fieldops-pos/pkg/db/models"
	"github.com/fieldops/fieldops-pos/pkg/enums"
	pkgerrors "github.com/fieldops/fieldops-pos/pkg/errors"
)

const orderUniqueConstraint = "ux_checkout_attempts_order"

// ErrDuplicateOrder reports an ERP order already recorded against another attempt.
var ErrDuplicateOrder = pkgerrors.New(pkgerrors.CodeConflict, "erp order already recorded by another checkout attempt")

const (
	defaultLedgerLimit = 50
	maxLedgerLimit     = 200
)

// LedgerFilter narrows a ledger listing.
type LedgerFilter struct {
	TerminalID string
	Stage      enums.CheckoutStage
	Limit      int
}

// Ledger persists one row per checkout attempt so partial failures can be reconciled.
type Ledger interface {
	Create(ctx context.Context, attempt *models.CheckoutAttempt) error
	Save(ctx context.Context, attempt *models.CheckoutAttempt) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutAttempt, error)
	List(ctx context.Context, filter LedgerFilter) ([]models.CheckoutAttempt, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository builds the gorm-backed ledger.
func NewLedgerRepository(db *gorm.DB) Ledger {
	if db == nil {
		return nil
	}
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, attempt *models.CheckoutAttempt) error {
	if attempt == nil {
		return fmt.Errorf("checkout attempt required")
	}
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *ledgerRepository) Save(ctx context.Context, attempt *models.CheckoutAttempt) error {
	if attempt == nil || attempt.ID == uuid.Nil {
		return fmt.Errorf("persisted checkout attempt required")
	}
	if err := r.db.WithContext(ctx).Save(attempt).Error; err != nil {
		if dbpkg.IsUniqueViolation(err, orderUniqueConstraint) || dbpkg.IsUniqueViolation(err, "checkout_attempts.order_id") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, ErrDuplicateOrder.Message())
		}
		return err
	}
	return nil
}

func (r *ledgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutAttempt, error) {
	var attempt models.CheckoutAttempt
	err := r.db.WithContext(ctx).First(&attempt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

func (r *ledgerRepository) List(ctx context.Context, filter LedgerFilter) ([]models.CheckoutAttempt, error) {
	query := r.db.WithContext(ctx).Model(&models.CheckoutAttempt{})
	if terminal := strings.TrimSpace(filter.TerminalID); terminal != "" {
		query = query.Where("terminal_id = ?", terminal)
	}
	if filter.Stage != "" {
		query = query.Where("stage = ?", filter.Stage)
	}

	var attempts []models.CheckoutAttempt
	err := query.
		Order("created_at DESC").
		Limit(clampLedgerLimit(filter.Limit)).
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

func clampLedgerLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultLedgerLimit
	case limit > maxLedgerLimit:
		return maxLedgerLimit
	default:
		return limit
	}
}
