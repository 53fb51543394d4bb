package cart

import (
	"strings"
	"sync"
)

// Registry hands out one Store per terminal.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*Store)}
}

// Store returns the terminal's store, creating it on first use.
func (r *Registry) Store(terminalID string) *Store {
	key := strings.TrimSpace(terminalID)
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stores[key]
	if !ok {
		st = NewStore()
		r.stores[key] = st
	}
	return st
}

// Forget drops the terminal's store.
func (r *Registry) Forget(terminalID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, strings.TrimSpace(terminalID))
}

// Len reports how many terminals currently hold a store.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
