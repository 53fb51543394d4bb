package terminal

import (
	"net/http"
	"time"

	"github.com/fieldops/fieldops-pos/api/middleware"
	"github.com/fieldops/fieldops-pos/api/responses"
	"github.com/fieldops/fieldops-pos/api/validators"
	"github.com/fieldops/fieldops-pos/internal/checkout"
	pkgerrors "github.com/fieldops/fieldops-pos/pkg/errors"
	"github.com/fieldops/fieldops-pos/pkg/logger"
)

// Checkout submits the active customer's cart to the ERP and returns the receipt.
func Checkout(stores Stores, svc checkout.Service, now func() time.Time, logg *logger.Logger) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		st, terminalID, err := terminalStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeOptionalJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invoiceDate, err := payload.invoiceDate(now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Checkout(r.Context(), st, checkout.Request{
			TerminalID:  terminalID,
			OperatorID:  middleware.OperatorIDFromContext(r.Context()),
			PartnerID:   payload.PartnerID,
			InvoiceDate: invoiceDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newReceiptResponse(receipt))
	}
}
