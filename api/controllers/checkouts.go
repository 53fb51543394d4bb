package controllers

import (
	"net/http"
	"time"

	"github.com/fieldops/fieldops-pos/api/responses"
	"github.com/fieldops/fieldops-pos/api/validators"
	"github.com/fieldops/fieldops-pos/internal/checkout"
	"github.com/fieldops/fieldops-pos/pkg/db/models"
	"github.com/fieldops/fieldops-pos/pkg/enums"
	pkgerrors "github.com/fieldops/fieldops-pos/pkg/errors"
	"github.com/fieldops/fieldops-pos/pkg/logger"
)

type checkoutAttemptResponse struct {
	ID                  string     `json:"id"`
	TerminalID          string     `json:"terminal_id"`
	OperatorID          string     `json:"operator_id"`
	CustomerID          string     `json:"customer_id"`
	PartnerID           int64      `json:"partner_id"`
	Stage               string     `json:"stage"`
	NeedsReconciliation bool       `json:"needs_reconciliation"`
	OrderID             *int64     `json:"order_id,omitempty"`
	InvoiceID           *int64     `json:"invoice_id,omitempty"`
	LineCount           int        `json:"line_count"`
	Subtotal            string     `json:"subtotal"`
	TaxAmount           string     `json:"tax_amount"`
	TotalAmount         string     `json:"total_amount"`
	FailureReason       *string    `json:"failure_reason,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}

func newCheckoutAttemptResponse(a models.CheckoutAttempt) checkoutAttemptResponse {
	return checkoutAttemptResponse{
		ID:                  a.ID.String(),
		TerminalID:          a.TerminalID,
		OperatorID:          a.OperatorID,
		CustomerID:          a.CustomerID,
		PartnerID:           a.PartnerID,
		Stage:               a.Stage.String(),
		NeedsReconciliation: a.Stage.NeedsReconciliation(),
		OrderID:             a.OrderID,
		InvoiceID:           a.InvoiceID,
		LineCount:           a.LineCount,
		Subtotal:            checkout.FormatAmount(a.Subtotal),
		TaxAmount:           checkout.FormatAmount(a.TaxAmount),
		TotalAmount:         checkout.FormatAmount(a.GrandTotal),
		FailureReason:       a.FailureReason,
		CreatedAt:           a.CreatedAt,
		CompletedAt:         a.CompletedAt,
	}
}

// ListCheckoutAttempts serves the reconciliation ledger, newest first.
func ListCheckoutAttempts(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := checkout.LedgerFilter{
			TerminalID: validators.ParseQueryString(r, "terminal_id", 64),
			Limit:      limit,
		}
		if raw := validators.ParseQueryString(r, "stage", 64); raw != "" {
			stage, err := enums.ParseCheckoutStage(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stage"))
				return
			}
			filter.Stage = stage
		}

		attempts, err := svc.ListAttempts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]checkoutAttemptResponse, 0, len(attempts))
		for _, a := range attempts {
			out = append(out, newCheckoutAttemptResponse(a))
		}
		responses.WriteSuccess(w, out)
	}
}
