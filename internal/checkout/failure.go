package checkout

import (
	"fmt"

	"github.com/fieldops/fieldops-pos/pkg/enums"
	pkgerrors "github.com/fieldops/fieldops-pos/pkg/errors"
)

// ErrEmptyCart rejects a checkout before any remote call.
var ErrEmptyCart = pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")

// Failure reports how far a checkout progressed before a remote step failed.
// OrderID and InvoiceID are zero when the matching artifact was never created.
type Failure struct {
	Stage     enums.CheckoutStage
	OrderID   int64
	InvoiceID int64
	Cause     error
}

func (f *Failure) Error() string {
	if f.Cause == nil {
		return f.Message()
	}
	return fmt.Sprintf("%s: %v", f.Message(), f.Cause)
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// Message is the operator-facing summary of the stage.
func (f *Failure) Message() string {
	switch f.Stage {
	case enums.CheckoutStageOrderCreationFailed:
		return "order creation failed"
	case enums.CheckoutStageOrderConfirmationFailed:
		return "order created but not confirmed"
	case enums.CheckoutStageInvoiceCreationFailed:
		return "order confirmed but invoice failed"
	case enums.CheckoutStageInvoiceLinkFailed:
		return "invoice created but linking failed"
	default:
		return "checkout failed"
	}
}

// apiError wraps the failure for the HTTP surface. Nothing exists remotely after an
// order creation failure; every later stage leaves artifacts to reconcile.
func (f *Failure) apiError() *pkgerrors.Error {
	code := pkgerrors.CodeDependency
	if f.Stage.NeedsReconciliation() {
		code = pkgerrors.CodePartialFailure
	}
	details := map[string]any{"stage": f.Stage.String()}
	if f.OrderID > 0 {
		details["order_id"] = f.OrderID
	}
	if f.InvoiceID > 0 {
		details["invoice_id"] = f.InvoiceID
	}
	return pkgerrors.Wrap(code, f, f.Message()).WithDetails(details)
}
