package cart

import (
	"sync"

	"github.com/fieldops/fieldops-pos/pkg/types"
)

// Store holds per-customer carts for one terminal and tracks the active customer.
// A missing active customer turns every mutation into a no-op.
type Store struct {
	mu      sync.RWMutex
	current types.ID
	carts   map[types.ID][]Line
}

// NewStore returns an empty store with no active customer.
func NewStore() *Store {
	return &Store{carts: make(map[types.ID][]Line)}
}

// SetCurrentCustomer switches the active customer. The empty id clears it.
func (s *Store) SetCurrentCustomer(customerID types.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = customerID
}

// CurrentCustomer returns the active customer and whether one is set.
func (s *Store) CurrentCustomer() (types.ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, !s.current.IsZero()
}

// CurrentCart returns a copy of the active customer's lines, never nil.
func (s *Store) CurrentCart() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.IsZero() {
		return []Line{}
	}
	return copyLines(s.carts[s.current])
}

// AddProduct replaces the active customer's cart with the single normalized line.
// It reports false when no customer is active.
func (s *Store) AddProduct(p ProductInput) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.IsZero() {
		return Line{}, false
	}
	line := p.Normalize()
	s.carts[s.current] = []Line{line}
	return line, true
}

// RemoveProduct drops lines matching productID from the active customer's cart.
func (s *Store) RemoveProduct(productID types.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.IsZero() {
		return false
	}
	lines, ok := s.carts[s.current]
	if !ok {
		return false
	}
	kept := make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.ID != productID {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(lines) {
		return false
	}
	s.carts[s.current] = kept
	return true
}

// ClearProducts empties the active customer's cart.
func (s *Store) ClearProducts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.IsZero() {
		return
	}
	s.carts[s.current] = []Line{}
}

// ClearCustomer empties the cart of a specific customer, active or not.
func (s *Store) ClearCustomer(customerID types.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if customerID.IsZero() {
		return
	}
	if _, ok := s.carts[customerID]; ok {
		s.carts[customerID] = []Line{}
	}
}

// LoadCustomerCart replaces a customer's cart wholesale and makes that customer active.
// Lines keep their price and quantity; only Subtotal is recomputed.
func (s *Store) LoadCustomerCart(customerID types.ID, lines []Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = customerID
	if customerID.IsZero() {
		return
	}
	loaded := make([]Line, 0, len(lines))
	for _, line := range lines {
		loaded = append(loaded, line.withSubtotal())
	}
	s.carts[customerID] = loaded
}

// ClearAllCarts drops every cart and the active customer.
func (s *Store) ClearAllCarts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
	s.carts = make(map[types.ID][]Line)
}

// Snapshot returns a deep copy of every customer's cart.
func (s *Store) Snapshot() map[types.ID][]Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[types.ID][]Line, len(s.carts))
	for id, lines := range s.carts {
		out[id] = copyLines(lines)
	}
	return out
}
