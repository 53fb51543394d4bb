package terminal

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fieldops/fieldops-pos/api/responses"
	"github.com/fieldops/fieldops-pos/internal/cart"
	pkgerrors "github.com/fieldops/fieldops-pos/pkg/errors"
	"github.com/fieldops/fieldops-pos/pkg/logger"
	"github.com/fieldops/fieldops-pos/pkg/types"
)

// Drafts parks and restores carts across sessions on the same terminal.
type Drafts interface {
	Save(ctx context.Context, terminalID string, st *cart.Store) (*cart.Draft, error)
	Restore(ctx context.Context, terminalID string, customerID types.ID, st *cart.Store) (*cart.Draft, error)
	Discard(ctx context.Context, terminalID string, customerID types.ID) error
}

// SaveDraft stores the active customer's cart for later.
func SaveDraft(stores Stores, drafts Drafts, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if drafts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "draft storage unavailable"))
			return
		}
		st, terminalID, err := terminalStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := drafts.Save(r.Context(), terminalID, st)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newDraftResponse(draft))
	}
}

// RestoreDraft loads a saved draft and makes its customer active.
func RestoreDraft(stores Stores, drafts Drafts, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if drafts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "draft storage unavailable"))
			return
		}
		st, terminalID, err := terminalStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID := types.ID(strings.TrimSpace(chi.URLParam(r, "customerId")))
		draft, err := drafts.Restore(r.Context(), terminalID, customerID, st)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDraftResponse(draft))
	}
}

// DiscardDraft deletes a saved draft without loading it.
func DiscardDraft(stores Stores, drafts Drafts, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if drafts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "draft storage unavailable"))
			return
		}
		_, terminalID, err := terminalStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID := types.ID(strings.TrimSpace(chi.URLParam(r, "customerId")))
		if customerID.IsZero() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customerId is required"))
			return
		}
		if err := drafts.Discard(r.Context(), terminalID, customerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
