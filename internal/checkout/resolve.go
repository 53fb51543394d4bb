package checkout

import (
	"errors"
	"fmt"

	"github.com/fieldops/fieldops-pos/internal/cart"
	"github.com/fieldops/fieldops-pos/pkg/types"
)

// DefaultPartnerID is the ERP partner used when nothing more specific is known.
const DefaultPartnerID int64 = 1

// ErrUnresolvableProduct is returned when a line carries no usable ERP product id.
var ErrUnresolvableProduct = errors.New("product id cannot be resolved")

// ResolveProductID picks the ERP product id for a cart line:
//  1. the explicit RemoteProductID
//  2. the local ID when it is numeric
//
// Anything else is unresolvable.
func ResolveProductID(line cart.Line) (int64, error) {
	if id, ok := line.RemoteProductID.Int64(); ok {
		return id, nil
	}
	if id, ok := line.ID.Int64(); ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: line %q", ErrUnresolvableProduct, line.ID)
}

// ResolvePartnerID picks the ERP partner for the order and invoice:
//  1. the explicit partner id supplied with the checkout
//  2. the customer id when it is numeric
//  3. fallback, or DefaultPartnerID when fallback is not positive
func ResolvePartnerID(explicit int64, customerID types.ID, fallback int64) int64 {
	if explicit > 0 {
		return explicit
	}
	if id, ok := customerID.Int64(); ok {
		return id
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultPartnerID
}
