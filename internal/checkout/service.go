package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fieldops/fieldops-pos/internal/cart"
	"github.com/fieldops/fieldops-pos/pkg/db/models"
	"github.com/fieldops/fieldops-pos/pkg/enums"
	pkgerrors "github.com/fieldops/fieldops-pos/pkg/errors"
	"github.com/fieldops/fieldops-pos/pkg/logger"
	"github.com/fieldops/fieldops-pos/pkg/metrics"
	"github.com/fieldops/fieldops-pos/pkg/odoo"
	"github.com/fieldops/fieldops-pos/pkg/types"
)

const (
	stepCreateOrder   = "create_order"
	stepConfirmOrder  = "confirm_order"
	stepCreateInvoice = "create_invoice"
	stepLinkInvoice   = "link_invoice"
)

// ERP is the remote side of the checkout workflow.
type ERP interface {
	CreateOrder(ctx context.Context, req odoo.OrderRequest) (int64, error)
	ConfirmOrder(ctx context.Context, orderID int64) error
	CreateInvoice(ctx context.Context, req odoo.InvoiceRequest) (int64, error)
	LinkInvoiceToOrder(ctx context.Context, orderID, invoiceID int64) error
}

type stageRecorder interface {
	IncStage(stage, result string)
	ObserveDuration(outcome string, duration time.Duration)
}

// Service executes checkout orchestration.
type Service interface {
	Checkout(ctx context.Context, st *cart.Store, req Request) (*Receipt, error)
	ListAttempts(ctx context.Context, filter LedgerFilter) ([]models.CheckoutAttempt, error)
}

// Config holds the checkout money and partner settings.
type Config struct {
	TaxRate          decimal.Decimal
	DefaultPartnerID int64
}

// Deps are the collaborators of the checkout service. ERP and Logger are required.
type Deps struct {
	ERP       ERP
	Ledger    Ledger
	Publisher EventPublisher
	Metrics   stageRecorder
	Logger    *logger.Logger
	Now       func() time.Time
}

// Request carries the per-submission inputs that do not live in the cart.
type Request struct {
	TerminalID  string
	OperatorID  string
	PartnerID   int64
	InvoiceDate time.Time
}

// Receipt is returned after all four remote steps succeeded.
type Receipt struct {
	AttemptID  uuid.UUID
	OrderID    int64
	InvoiceID  int64
	CustomerID types.ID
	PartnerID  int64
	Lines      []cart.Line
	Totals
}

type service struct {
	erp     ERP
	ledger  Ledger
	events  eventEmitter
	metrics stageRecorder
	logg    *logger.Logger
	now     func() time.Time
	cfg     Config
}

// NewService builds the checkout orchestrator.
func NewService(deps Deps, cfg Config) (Service, error) {
	if deps.ERP == nil {
		return nil, fmt.Errorf("erp client required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.TaxRate.IsNegative() {
		return nil, fmt.Errorf("tax rate must not be negative")
	}
	if cfg.DefaultPartnerID <= 0 {
		cfg.DefaultPartnerID = DefaultPartnerID
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	var recorder stageRecorder = (*metrics.CheckoutMetrics)(nil)
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}
	return &service{
		erp:     deps.ERP,
		ledger:  deps.Ledger,
		events:  eventEmitter{publisher: deps.Publisher, logg: deps.Logger},
		metrics: recorder,
		logg:    deps.Logger,
		now:     now,
		cfg:     cfg,
	}, nil
}

// Checkout submits the active customer's cart: create order, confirm it, create the invoice,
// link it to the order. The first failing step aborts the rest and leaves the cart intact;
// nothing already created remotely is undone. Once started it ignores cancellation of ctx;
// the ERP client's timeout bounds each remote call.
func (s *service) Checkout(ctx context.Context, st *cart.Store, req Request) (*Receipt, error) {
	ctx = context.WithoutCancel(ctx)
	if st == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store required")
	}
	customerID, _ := st.CurrentCustomer()
	lines := st.CurrentCart()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	orderLines, err := buildOrderLines(lines)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}

	started := s.now()
	partnerID := ResolvePartnerID(req.PartnerID, customerID, s.cfg.DefaultPartnerID)
	totals := ComputeTotals(lines, s.cfg.TaxRate)

	ctx = s.logg.WithCustomerID(ctx, customerID.String())
	ctx = s.logg.WithFields(ctx, map[string]any{
		"partner_id": partnerID,
		"line_count": len(lines),
	})

	attempt := &models.CheckoutAttempt{
		ID:         uuid.New(),
		TerminalID: req.TerminalID,
		OperatorID: req.OperatorID,
		CustomerID: customerID.String(),
		PartnerID:  partnerID,
		Stage:      enums.CheckoutStagePending,
		LineCount:  len(lines),
		Subtotal:   totals.Subtotal,
		TaxAmount:  totals.TaxAmount,
		GrandTotal: totals.GrandTotal,
	}
	ctx = s.logg.WithField(ctx, "attempt_id", attempt.ID.String())
	s.recordAttempt(ctx, attempt)
	s.logg.Info(ctx, "checkout.started")

	orderID, err := s.erp.CreateOrder(ctx, odoo.OrderRequest{PartnerID: partnerID, Lines: orderLines})
	if err == nil && orderID <= 0 {
		err = fmt.Errorf("erp returned no order id")
	}
	if err != nil {
		return nil, s.fail(ctx, attempt, started, stepCreateOrder, &Failure{Stage: enums.CheckoutStageOrderCreationFailed, Cause: err})
	}
	s.stepSucceeded(ctx, stepCreateOrder, orderID, 0)

	if err := s.erp.ConfirmOrder(ctx, orderID); err != nil {
		return nil, s.fail(ctx, attempt, started, stepConfirmOrder, &Failure{Stage: enums.CheckoutStageOrderConfirmationFailed, OrderID: orderID, Cause: err})
	}
	s.stepSucceeded(ctx, stepConfirmOrder, orderID, 0)

	invoiceID, err := s.erp.CreateInvoice(ctx, odoo.InvoiceRequest{
		PartnerID:   partnerID,
		Lines:       orderLines,
		InvoiceDate: req.InvoiceDate,
	})
	if err == nil && invoiceID <= 0 {
		err = fmt.Errorf("erp returned no invoice id")
	}
	if err != nil {
		return nil, s.fail(ctx, attempt, started, stepCreateInvoice, &Failure{Stage: enums.CheckoutStageInvoiceCreationFailed, OrderID: orderID, Cause: err})
	}
	s.stepSucceeded(ctx, stepCreateInvoice, orderID, invoiceID)

	if err := s.erp.LinkInvoiceToOrder(ctx, orderID, invoiceID); err != nil {
		return nil, s.fail(ctx, attempt, started, stepLinkInvoice, &Failure{Stage: enums.CheckoutStageInvoiceLinkFailed, OrderID: orderID, InvoiceID: invoiceID, Cause: err})
	}
	s.stepSucceeded(ctx, stepLinkInvoice, orderID, invoiceID)

	st.ClearCustomer(customerID)

	completedAt := s.now()
	attempt.Stage = enums.CheckoutStageCompleted
	attempt.OrderID = &orderID
	attempt.InvoiceID = &invoiceID
	attempt.CompletedAt = &completedAt
	s.updateAttempt(ctx, attempt)
	s.metrics.ObserveDuration(attempt.Stage.String(), completedAt.Sub(started))
	s.events.emit(ctx, newEvent(EventCheckoutCompleted, attempt, completedAt))
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"stage":       attempt.Stage.String(),
		"order_id":    orderID,
		"invoice_id":  invoiceID,
		"grand_total": FormatAmount(totals.GrandTotal),
	}), "checkout.completed")

	return &Receipt{
		AttemptID:  attempt.ID,
		OrderID:    orderID,
		InvoiceID:  invoiceID,
		CustomerID: customerID,
		PartnerID:  partnerID,
		Lines:      lines,
		Totals:     totals,
	}, nil
}

func (s *service) ListAttempts(ctx context.Context, filter LedgerFilter) ([]models.CheckoutAttempt, error) {
	if s.ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "checkout ledger not configured")
	}
	if filter.Stage != "" && !filter.Stage.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid stage %q", filter.Stage)
	}
	attempts, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list checkout attempts")
	}
	return attempts, nil
}

func (s *service) stepSucceeded(ctx context.Context, step string, orderID, invoiceID int64) {
	s.metrics.IncStage(step, metrics.ResultSuccess)
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"step":       step,
		"order_id":   orderID,
		"invoice_id": invoiceID,
	}), "checkout.stage.ok")
}

func (s *service) fail(ctx context.Context, attempt *models.CheckoutAttempt, started time.Time, step string, failure *Failure) error {
	s.metrics.IncStage(step, metrics.ResultFailure)

	reason := failure.Error()
	attempt.Stage = failure.Stage
	attempt.FailureReason = &reason
	if failure.OrderID > 0 {
		orderID := failure.OrderID
		attempt.OrderID = &orderID
	}
	if failure.InvoiceID > 0 {
		invoiceID := failure.InvoiceID
		attempt.InvoiceID = &invoiceID
	}
	s.updateAttempt(ctx, attempt)

	finished := s.now()
	s.metrics.ObserveDuration(failure.Stage.String(), finished.Sub(started))

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"step":       step,
		"stage":      failure.Stage.String(),
		"order_id":   failure.OrderID,
		"invoice_id": failure.InvoiceID,
	})
	if failure.Stage.NeedsReconciliation() {
		s.logg.Error(logCtx, "checkout.stage.failed", failure)
		s.events.emit(ctx, newEvent(EventCheckoutPartialFailure, attempt, finished))
	} else {
		s.logg.Warn(logCtx, fmt.Sprintf("checkout.stage.failed: %v", failure))
	}

	return failure.apiError()
}

func (s *service) recordAttempt(ctx context.Context, attempt *models.CheckoutAttempt) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Create(ctx, attempt); err != nil {
		s.logg.Error(ctx, "checkout ledger insert failed", err)
	}
}

func (s *service) updateAttempt(ctx context.Context, attempt *models.CheckoutAttempt) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Save(ctx, attempt); err != nil {
		s.logg.Error(ctx, "checkout ledger update failed", err)
	}
}

func buildOrderLines(lines []cart.Line) ([]odoo.OrderLine, error) {
	out := make([]odoo.OrderLine, 0, len(lines))
	for _, line := range lines {
		productID, err := ResolveProductID(line)
		if err != nil {
			return nil, err
		}
		out = append(out, odoo.OrderLine{
			ProductID: productID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			PriceUnit: line.UnitPrice,
		})
	}
	return out, nil
}
