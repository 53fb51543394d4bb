package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/fieldops/fieldops-pos/pkg/errors"
	"github.com/fieldops/fieldops-pos/pkg/logger"
	"github.com/fieldops/fieldops-pos/pkg/redis"
	"github.com/fieldops/fieldops-pos/pkg/types"
)

type draftStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	DraftKey(terminalID, customerID string) string
}

// Draft is a saved cart waiting to be restored on the same terminal.
type Draft struct {
	CustomerID types.ID  `json:"customer_id"`
	Lines      []Line    `json:"lines"`
	SavedAt    time.Time `json:"saved_at"`
}

// DraftService parks carts in Redis and hydrates them back through Store.LoadCustomerCart.
type DraftService struct {
	store draftStore
	ttl   time.Duration
	logg  *logger.Logger
	now   func() time.Time
}

// NewDraftService builds a draft service backed by Redis.
func NewDraftService(store draftStore, ttl time.Duration, logg *logger.Logger) (*DraftService, error) {
	if store == nil {
		return nil, fmt.Errorf("draft store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("draft ttl must be positive")
	}
	return &DraftService{
		store: store,
		ttl:   ttl,
		logg:  logg,
		now:   time.Now,
	}, nil
}

// Save stores the active customer's cart for the terminal.
func (s *DraftService) Save(ctx context.Context, terminalID string, st *Store) (*Draft, error) {
	customerID, ok := st.CurrentCustomer()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no active customer")
	}
	lines := st.CurrentCart()
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	draft := &Draft{CustomerID: customerID, Lines: lines, SavedAt: s.now().UTC()}
	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode draft")
	}
	key := s.store.DraftKey(terminalID, customerID.String())
	if err := s.store.Set(ctx, key, payload, s.ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save draft")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"customer_id": customerID.String(),
			"line_count":  len(lines),
		}), "cart draft saved")
	}
	return draft, nil
}

// Restore loads a saved draft into the store, making its customer active.
// The draft is consumed.
func (s *DraftService) Restore(ctx context.Context, terminalID string, customerID types.ID, st *Store) (*Draft, error) {
	if customerID.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_id is required")
	}
	key := s.store.DraftKey(terminalID, customerID.String())
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if redis.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load draft")
	}

	var draft Draft
	if err := json.NewDecoder(strings.NewReader(raw)).Decode(&draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode draft")
	}
	draft.CustomerID = customerID
	st.LoadCustomerCart(customerID, draft.Lines)

	if err := s.store.Del(ctx, key); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "draft_key", key), fmt.Sprintf("failed to discard restored draft: %v", err))
	}
	return &draft, nil
}

// Discard deletes a saved draft.
func (s *DraftService) Discard(ctx context.Context, terminalID string, customerID types.ID) error {
	if err := s.store.Del(ctx, s.store.DraftKey(terminalID, customerID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "discard draft")
	}
	return nil
}
