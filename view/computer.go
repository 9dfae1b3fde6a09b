package view

import (
	"sync"

	"storefront/domain"
	"storefront/state"
)

// Computer memoizes Derive for the current catalog and effective filters.
type Computer struct {
	mu       sync.Mutex
	store    *state.Store
	products []domain.Product
	visible  []domain.Product
	valid    bool
}

// NewComputer returns a Computer with an empty catalog.
func NewComputer() *Computer {
	return &Computer{}
}

// Bind reads filters from s and drops the memo whenever they change. The
// returned func unbinds.
func (c *Computer) Bind(s *state.Store) func() {
	c.mu.Lock()
	c.store = s
	c.valid = false
	c.mu.Unlock()
	return s.Subscribe(func(ch state.Change) {
		if ch.Has(state.ChangeFilters | state.ChangeSearch) {
			c.invalidate()
		}
	})
}

// SetCatalog replaces the product list.
func (c *Computer) SetCatalog(products []domain.Product) {
	c.mu.Lock()
	c.products = products
	c.valid = false
	c.mu.Unlock()
}

func (c *Computer) invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

// Visible returns the derived list, recomputing only after an invalidation.
// Callers must not modify the returned slice.
func (c *Computer) Visible() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid {
		return c.visible
	}
	f := domain.DefaultFilters()
	if c.store != nil {
		f = c.store.EffectiveFilters()
	}
	c.visible = Derive(c.products, f)
	c.valid = true
	return c.visible
}
