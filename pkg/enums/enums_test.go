package enums

import "testing"

func TestParseCheckoutStage(t *testing.T) {
	for _, stage := range validCheckoutStages {
		got, err := ParseCheckoutStage(string(stage))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", stage, err)
		}
		if got != stage {
			t.Fatalf("expected %q got %q", stage, got)
		}
	}
	if _, err := ParseCheckoutStage("shipped"); err == nil {
		t.Fatal("expected unknown stage to fail")
	}
}

func TestCheckoutStageNeedsReconciliation(t *testing.T) {
	cases := map[CheckoutStage]bool{
		CheckoutStagePending:                 false,
		CheckoutStageOrderCreationFailed:     false,
		CheckoutStageOrderConfirmationFailed: true,
		CheckoutStageInvoiceCreationFailed:   true,
		CheckoutStageInvoiceLinkFailed:       true,
		CheckoutStageCompleted:               false,
	}
	for stage, want := range cases {
		if got := stage.NeedsReconciliation(); got != want {
			t.Fatalf("stage %q expected %v got %v", stage, want, got)
		}
	}
}

func TestOperatorRoleValidity(t *testing.T) {
	if !OperatorRoleSupervisor.IsValid() {
		t.Fatal("supervisor should be valid")
	}
	if OperatorRole("owner").IsValid() {
		t.Fatal("owner is not an operator role")
	}
	if _, err := ParseOperatorRole("cashier"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
