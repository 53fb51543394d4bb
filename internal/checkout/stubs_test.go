package checkout

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/fieldops/fieldops-pos/pkg/db/models"
	"github.com/fieldops/fieldops-pos/pkg/logger"
	"github.com/fieldops/fieldops-pos/pkg/odoo"
)

type stubERP struct {
	mu    sync.Mutex
	calls []string

	orderID   int64
	invoiceID int64

	createOrderErr   error
	confirmErr       error
	createInvoiceErr error
	linkErr          error

	afterCreateOrder func()

	lastOrder   odoo.OrderRequest
	lastInvoice odoo.InvoiceRequest
	linked      [2]int64
}

func (s *stubERP) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubERP) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Every method fails with ctx.Err() once ctx is done, like an HTTP client would.
func (s *stubERP) CreateOrder(ctx context.Context, req odoo.OrderRequest) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.record(stepCreateOrder)
	s.lastOrder = req
	if s.createOrderErr != nil {
		return 0, s.createOrderErr
	}
	if s.afterCreateOrder != nil {
		s.afterCreateOrder()
	}
	return s.orderID, nil
}

func (s *stubERP) ConfirmOrder(ctx context.Context, orderID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.record(stepConfirmOrder)
	return s.confirmErr
}

func (s *stubERP) CreateInvoice(ctx context.Context, req odoo.InvoiceRequest) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.record(stepCreateInvoice)
	s.lastInvoice = req
	if s.createInvoiceErr != nil {
		return 0, s.createInvoiceErr
	}
	return s.invoiceID, nil
}

func (s *stubERP) LinkInvoiceToOrder(ctx context.Context, orderID, invoiceID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.record(stepLinkInvoice)
	s.linked = [2]int64{orderID, invoiceID}
	return s.linkErr
}

type stubLedger struct {
	mu       sync.Mutex
	attempts map[uuid.UUID]models.CheckoutAttempt
	saves    int
	failAll  bool
}

func newStubLedger() *stubLedger {
	return &stubLedger{attempts: map[uuid.UUID]models.CheckoutAttempt{}}
}

func (s *stubLedger) Create(_ context.Context, attempt *models.CheckoutAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errors.New("ledger down")
	}
	s.attempts[attempt.ID] = *attempt
	return nil
}

func (s *stubLedger) Save(ctx context.Context, attempt *models.CheckoutAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.failAll {
		return errors.New("ledger down")
	}
	s.saves++
	s.attempts[attempt.ID] = *attempt
	return nil
}

func (s *stubLedger) FindByID(_ context.Context, id uuid.UUID) (*models.CheckoutAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.attempts[id]
	if !ok {
		return nil, nil
	}
	return &attempt, nil
}

func (s *stubLedger) List(_ context.Context, filter LedgerFilter) ([]models.CheckoutAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.CheckoutAttempt{}
	for _, attempt := range s.attempts {
		if filter.Stage != "" && attempt.Stage != filter.Stage {
			continue
		}
		out = append(out, attempt)
	}
	return out, nil
}

func (s *stubLedger) only() models.CheckoutAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, attempt := range s.attempts {
		return attempt
	}
	return models.CheckoutAttempt{}
}

type publishedEvent struct {
	data  []byte
	attrs map[string]string
}

type stubPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (s *stubPublisher) Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.err != nil {
		return "", s.err
	}
	s.events = append(s.events, publishedEvent{data: data, attrs: attrs})
	return "server-id", nil
}

func (s *stubPublisher) Types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []string{}
	for _, e := range s.events {
		out = append(out, e.attrs["event_type"])
	}
	return out
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard})
}
