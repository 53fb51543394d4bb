package enums

import "fmt"

// CheckoutStage records how far a checkout attempt progressed against the ERP.
type CheckoutStage string

const (
	CheckoutStagePending                 CheckoutStage = "pending"
	CheckoutStageOrderCreationFailed     CheckoutStage = "order_creation_failed"
	CheckoutStageOrderConfirmationFailed CheckoutStage = "order_confirmation_failed"
	CheckoutStageInvoiceCreationFailed   CheckoutStage = "invoice_creation_failed"
	CheckoutStageInvoiceLinkFailed       CheckoutStage = "invoice_link_failed"
	CheckoutStageCompleted               CheckoutStage = "completed"
)

var validCheckoutStages = []CheckoutStage{
	CheckoutStagePending,
	CheckoutStageOrderCreationFailed,
	CheckoutStageOrderConfirmationFailed,
	CheckoutStageInvoiceCreationFailed,
	CheckoutStageInvoiceLinkFailed,
	CheckoutStageCompleted,
}

// String implements fmt.Stringer.
func (c CheckoutStage) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStage.
func (c CheckoutStage) IsValid() bool {
	for _, candidate := range validCheckoutStages {
		if candidate == c {
			return true
		}
	}
	return false
}

// NeedsReconciliation reports whether remote artifacts were left behind without
// completing the workflow.
func (c CheckoutStage) NeedsReconciliation() bool {
	switch c {
	case CheckoutStageOrderConfirmationFailed,
		CheckoutStageInvoiceCreationFailed,
		CheckoutStageInvoiceLinkFailed:
		return true
	}
	return false
}

// ParseCheckoutStage converts raw input into a CheckoutStage.
func ParseCheckoutStage(value string) (CheckoutStage, error) {
	for _, candidate := range validCheckoutStages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout stage %q", value)
}
