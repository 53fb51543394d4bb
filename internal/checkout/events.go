package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fieldops/fieldops-pos/pkg/db/models"
	"github.com/fieldops/fieldops-pos/pkg/logger"
)

const (
	EventCheckoutCompleted      = "checkout.completed"
	EventCheckoutPartialFailure = "checkout.partial_failure"
)

// EventPublisher sends one encoded event to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error)
}

// Event is the payload published after a checkout finishes or leaves remote artifacts behind.
type Event struct {
	EventID    uuid.UUID `json:"event_id"`
	Type       string    `json:"type"`
	AttemptID  uuid.UUID `json:"attempt_id"`
	TerminalID string    `json:"terminal_id"`
	OperatorID string    `json:"operator_id"`
	CustomerID string    `json:"customer_id"`
	PartnerID  int64     `json:"partner_id"`
	Stage      string    `json:"stage"`
	OrderID    *int64    `json:"order_id,omitempty"`
	InvoiceID  *int64    `json:"invoice_id,omitempty"`
	GrandTotal string    `json:"grand_total"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newEvent(eventType string, attempt *models.CheckoutAttempt, at time.Time) Event {
	return Event{
		EventID:    uuid.New(),
		Type:       eventType,
		AttemptID:  attempt.ID,
		TerminalID: attempt.TerminalID,
		OperatorID: attempt.OperatorID,
		CustomerID: attempt.CustomerID,
		PartnerID:  attempt.PartnerID,
		Stage:      attempt.Stage.String(),
		OrderID:    attempt.OrderID,
		InvoiceID:  attempt.InvoiceID,
		GrandTotal: FormatAmount(attempt.GrandTotal),
		OccurredAt: at.UTC(),
	}
}

// eventEmitter publishes checkout events; failures are logged and swallowed.
type eventEmitter struct {
	publisher EventPublisher
	logg      *logger.Logger
}

func (e eventEmitter) emit(ctx context.Context, event Event) {
	if e.publisher == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err == nil {
		_, err = e.publisher.Publish(ctx, payload, map[string]string{
			"event_type":  event.Type,
			"stage":       event.Stage,
			"terminal_id": event.TerminalID,
		})
	}
	if err != nil && e.logg != nil {
		e.logg.Warn(e.logg.WithField(ctx, "event_type", event.Type), fmt.Sprintf("checkout event not published: %v", err))
	}
}
