package terminal

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fieldops/fieldops-pos/api/middleware"
	"github.com/fieldops/fieldops-pos/api/responses"
	"github.com/fieldops/fieldops-pos/api/validators"
	"github.com/fieldops/fieldops-pos/internal/cart"
	"github.com/fieldops/fieldops-pos/internal/checkout"
	pkgerrors "github.com/fieldops/fieldops-pos/pkg/errors"
	"github.com/fieldops/fieldops-pos/pkg/logger"
	"github.com/fieldops/fieldops-pos/pkg/types"
)

// Stores resolves the cart store owned by a terminal.
type Stores interface {
	Store(terminalID string) *cart.Store
	Forget(terminalID string)
}

func terminalStore(r *http.Request, stores Stores) (*cart.Store, string, error) {
	if stores == nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeInternal, "cart registry unavailable")
	}
	terminalID := strings.TrimSpace(middleware.TerminalIDFromContext(r.Context()))
	if terminalID == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeForbidden, "terminal context missing")
	}
	return stores.Store(terminalID), terminalID, nil
}

func writeCart(w http.ResponseWriter, st *cart.Store, taxRate decimal.Decimal) {
	customerID, _ := st.CurrentCustomer()
	lines := st.CurrentCart()
	responses.WriteSuccess(w, cartResponse{
		CustomerID:     customerID,
		Lines:          newLineResponses(lines),
		totalsResponse: newTotalsResponse(checkout.ComputeTotals(lines, taxRate)),
	})
}

// SetCustomer makes a customer active on the terminal.
func SetCustomer(stores Stores, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, _, err := terminalStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setCustomerRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		st.SetCurrentCustomer(payload.CustomerID)
		writeCart(w, st, taxRate)
	}
}

// GetCart returns the active customer's cart with formatted totals.
func GetCart(stores Stores, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, _, err := terminalStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, st, taxRate)
	}
}

// AddItem replaces the active customer's cart with the posted product.
func AddItem(stores Stores, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, _, err := terminalStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cart.ProductInput
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, ok := st.AddProduct(payload); !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "no active customer"))
			return
		}
		writeCart(w, st, taxRate)
	}
}

// RemoveItem drops a product from the active customer's cart.
func RemoveItem(stores Stores, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, _, err := terminalStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID := types.ID(strings.TrimSpace(chi.URLParam(r, "productId")))
		if productID.IsZero() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productId is required"))
			return
		}
		if !st.RemoveProduct(productID) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not in cart", productID))
			return
		}
		writeCart(w, st, taxRate)
	}
}

// ClearCart empties the active customer's cart.
func ClearCart(stores Stores, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, _, err := terminalStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		st.ClearProducts()
		writeCart(w, st, taxRate)
	}
}

// LoadCustomerCart replaces a customer's cart with previously saved lines and makes them active.
func LoadCustomerCart(stores Stores, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, _, err := terminalStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID := types.ID(strings.TrimSpace(chi.URLParam(r, "customerId")))
		if customerID.IsZero() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customerId is required"))
			return
		}

		var payload loadCartRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		st.LoadCustomerCart(customerID, payload.toLines())
		writeCart(w, st, taxRate)
	}
}

// ClearAllCarts wipes every cart on the terminal and releases its store.
func ClearAllCarts(stores Stores, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, terminalID, err := terminalStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		st.ClearAllCarts()
		stores.Forget(terminalID)
		if logg != nil {
			logg.Info(r.Context(), "terminal carts cleared")
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
