// Package state owns the session state of the storefront: the cart, the
// active filters, the theme and the cart drawer flag. Cart and theme are
// persisted through a domain.KVStore; everything else lives for the session.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"storefront/domain"
	"storefront/logx"
	"storefront/util"
)

// Keys under which cart and theme are persisted.
const (
	CartKey  = "storefront.cart"
	ThemeKey = "storefront.theme"
)

// DefaultSearchDelay is the quiet window before a typed search term applies.
const DefaultSearchDelay = 500 * time.Millisecond

// Change is a bitmask describing what a mutation touched.
type Change uint8

const (
	ChangeCart Change = 1 << iota
	ChangeFilters
	ChangeSearch
	ChangeTheme
	ChangeCartOpen
)

// Has reports whether any bit of o is set in c.
func (c Change) Has(o Change) bool { return c&o != 0 }

// Options tune a Store.
type Options struct {
	// ColorScheme reports the ambient dark preference. It is consulted only
	// when no theme has been persisted. Defaults to lipgloss.HasDarkBackground.
	ColorScheme func() bool
	// SearchDelay defaults to DefaultSearchDelay.
	SearchDelay time.Duration
}

// Store is the single owner of session state. Listeners run after the
// mutation, outside the lock.
type Store struct {
	ctx context.Context
	kv  domain.KVStore

	mu        sync.Mutex
	cart      domain.Cart
	filters   domain.FilterCriteria
	search    string
	dark      bool
	cartOpen  bool
	listeners map[int]func(Change)
	nextID    int

	debounce *util.Debouncer[string]
}

// New seeds a Store from kv. Read failures and malformed data are logged and
// treated as absent. ctx is used for every later persistence call.
func New(ctx context.Context, kv domain.KVStore, opts Options) *Store {
	if opts.ColorScheme == nil {
		opts.ColorScheme = lipgloss.HasDarkBackground
	}
	if opts.SearchDelay <= 0 {
		opts.SearchDelay = DefaultSearchDelay
	}

	s := &Store{
		ctx:       ctx,
		kv:        kv,
		filters:   domain.DefaultFilters(),
		listeners: make(map[int]func(Change)),
	}
	s.cart = s.loadCart()
	s.dark = s.loadTheme(opts.ColorScheme)
	s.debounce = util.NewDebouncer(opts.SearchDelay, s.publishSearch)
	return s
}

func (s *Store) loadCart() domain.Cart {
	raw, ok, err := s.kv.Get(s.ctx, CartKey)
	if err != nil {
		logx.Warn().Err(err).Str("key", CartKey).Msg("failed to read cart, starting empty")
		return domain.Cart{}
	}
	if !ok {
		return domain.Cart{}
	}
	cart, err := DecodeCart(raw)
	if err != nil {
		logx.Warn().Err(err).Str("key", CartKey).Msg("ignoring malformed cart")
		return domain.Cart{}
	}
	return cart
}

func (s *Store) loadTheme(ambient func() bool) bool {
	raw, ok, err := s.kv.Get(s.ctx, ThemeKey)
	if err != nil {
		logx.Warn().Err(err).Str("key", ThemeKey).Msg("failed to read theme, using terminal preference")
		return ambient()
	}
	if !ok {
		return ambient()
	}
	return raw == domain.ThemeDark
}

// Subscribe registers fn for change notifications and returns its remover.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(c Change) {
	s.mu.Lock()
	fns := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

// persistCartLocked writes the whole cart. Failures are logged only.
func (s *Store) persistCartLocked() {
	raw, err := EncodeCart(s.cart)
	if err != nil {
		logx.Error().Err(err).Msg("failed to encode cart")
		return
	}
	if err := s.kv.Set(s.ctx, CartKey, raw); err != nil {
		logx.Warn().Err(err).Str("key", CartKey).Msg("failed to persist cart")
	}
}

func (s *Store) persistThemeLocked() {
	v := domain.ThemeLight
	if s.dark {
		v = domain.ThemeDark
	}
	if err := s.kv.Set(s.ctx, ThemeKey, v); err != nil {
		logx.Warn().Err(err).Str("key", ThemeKey).Msg("failed to persist theme")
	}
}

// AddToCart increments the line for p, or appends a new line with quantity 1.
func (s *Store) AddToCart(p domain.Product) {
	s.mu.Lock()
	if i := s.cart.Find(p.ID); i >= 0 {
		s.cart[i].Quantity++
	} else {
		s.cart = append(s.cart, domain.CartLine{Product: p, Quantity: 1})
	}
	s.persistCartLocked()
	s.mu.Unlock()
	s.notify(ChangeCart)
}

// RemoveFromCart drops the line for id. Unknown ids are a no-op on the cart
// but still persist and notify.
func (s *Store) RemoveFromCart(id int) {
	s.mu.Lock()
	if i := s.cart.Find(id); i >= 0 {
		s.cart = append(s.cart[:i:i], s.cart[i+1:]...)
	}
	s.persistCartLocked()
	s.mu.Unlock()
	s.notify(ChangeCart)
}

// UpdateCartQuantity sets the quantity of the line for id; q <= 0 removes it.
func (s *Store) UpdateCartQuantity(id, q int) {
	if q <= 0 {
		s.RemoveFromCart(id)
		return
	}
	s.mu.Lock()
	if i := s.cart.Find(id); i >= 0 {
		s.cart[i].Quantity = q
	}
	s.persistCartLocked()
	s.mu.Unlock()
	s.notify(ChangeCart)
}

// ClearCart empties the cart.
func (s *Store) ClearCart() {
	s.mu.Lock()
	s.cart = domain.Cart{}
	s.persistCartLocked()
	s.mu.Unlock()
	s.notify(ChangeCart)
}

// SetFilters replaces the filters with fn(current). A changed search term is
// debounced before it reaches EffectiveFilters.
func (s *Store) SetFilters(fn func(domain.FilterCriteria) domain.FilterCriteria) {
	s.mu.Lock()
	prev := s.filters
	s.filters = fn(prev)
	next := s.filters
	s.mu.Unlock()

	if next.Search != prev.Search {
		s.debounce.Trigger(next.Search)
	}
	s.notify(ChangeFilters)
}

// MergeFilters applies a partial update.
func (s *Store) MergeFilters(p domain.FilterPatch) {
	s.SetFilters(p.Apply)
}

// ResetFilters restores domain.ResetFilters and clears the search term at once.
func (s *Store) ResetFilters() {
	s.mu.Lock()
	s.filters = domain.ResetFilters()
	s.mu.Unlock()

	s.debounce.Trigger("")
	s.debounce.Flush()
	s.notify(ChangeFilters)
}

// FlushSearch applies a pending search term immediately. It reports whether
// one was pending.
func (s *Store) FlushSearch() bool {
	return s.debounce.Flush()
}

func (s *Store) publishSearch(term string) {
	s.mu.Lock()
	changed := s.search != term
	s.search = term
	s.mu.Unlock()
	if changed {
		s.notify(ChangeSearch)
	}
}

// ToggleDarkMode flips and persists the theme.
func (s *Store) ToggleDarkMode() {
	s.mu.Lock()
	s.dark = !s.dark
	s.persistThemeLocked()
	s.mu.Unlock()
	s.notify(ChangeTheme)
}

// SetCartOpen shows or hides the cart drawer. Not persisted.
func (s *Store) SetCartOpen(open bool) {
	s.mu.Lock()
	s.cartOpen = open
	s.mu.Unlock()
	s.notify(ChangeCartOpen)
}

// Cart returns a copy of the cart.
func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Filters returns the filters as last set, including the undebounced search.
func (s *Store) Filters() domain.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// EffectiveFilters returns Filters with the debounced search term.
func (s *Store) EffectiveFilters() domain.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.filters
	f.Search = s.search
	return f
}

// DarkMode reports the active theme.
func (s *Store) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

// CartOpen reports whether the cart drawer is shown.
func (s *Store) CartOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartOpen
}

// Close stops the search timer. Pending terms are discarded.
func (s *Store) Close() {
	s.debounce.Stop()
}
