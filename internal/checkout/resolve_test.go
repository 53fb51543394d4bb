package checkout

import (
	"errors"
	"testing"

	"github.com/fieldops/fieldops-pos/internal/cart"
)

func TestResolveProductIDPrefersRemoteID(t *testing.T) {
	t.Parallel()

	id, err := ResolveProductID(cart.Line{ID: "5", RemoteProductID: "900"})
	if err != nil || id != 900 {
		t.Fatalf("expected remote id 900, got %d err=%v", id, err)
	}
}

func TestResolveProductIDFallsBackToNumericLocalID(t *testing.T) {
	t.Parallel()

	id, err := ResolveProductID(cart.Line{ID: "5"})
	if err != nil || id != 5 {
		t.Fatalf("expected local id 5, got %d err=%v", id, err)
	}

	id, err = ResolveProductID(cart.Line{ID: "5", RemoteProductID: "not-a-number"})
	if err != nil || id != 5 {
		t.Fatalf("expected local id 5 when remote id is unusable, got %d err=%v", id, err)
	}
}

func TestResolveProductIDUnresolvable(t *testing.T) {
	t.Parallel()

	for _, line := range []cart.Line{{ID: "sku-1"}, {ID: ""}, {ID: "0"}, {ID: "-4"}} {
		if _, err := ResolveProductID(line); !errors.Is(err, ErrUnresolvableProduct) {
			t.Fatalf("expected unresolvable for %+v, got %v", line, err)
		}
	}
}

func TestResolvePartnerIDExplicit(t *testing.T) {
	t.Parallel()

	if got := ResolvePartnerID(31, "42", 7); got != 31 {
		t.Fatalf("expected explicit partner 31, got %d", got)
	}
}

func TestResolvePartnerIDNumericCustomer(t *testing.T) {
	t.Parallel()

	if got := ResolvePartnerID(0, "42", 7); got != 42 {
		t.Fatalf("expected customer partner 42, got %d", got)
	}
}

func TestResolvePartnerIDConfiguredFallback(t *testing.T) {
	t.Parallel()

	if got := ResolvePartnerID(0, "walk-in", 7); got != 7 {
		t.Fatalf("expected configured fallback 7, got %d", got)
	}
}

func TestResolvePartnerIDDefault(t *testing.T) {
	t.Parallel()

	if got := ResolvePartnerID(-1, "", 0); got != DefaultPartnerID {
		t.Fatalf("expected default partner %d, got %d", DefaultPartnerID, got)
	}
}
