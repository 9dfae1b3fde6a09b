// Package domain defines core storefront types and interfaces.
package domain

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// AllCategories is the category sentinel that disables the category filter.
const AllCategories = "All"

// DefaultMaxPrice is the price ceiling of a fresh FilterCriteria.
const DefaultMaxPrice = 5000

// ResetMaxPrice is the price ceiling after an explicit reset. It matches the
// top of the interactive price control.
const ResetMaxPrice = 2000

// INRPerUSD is the fixed rate used for rupee price display.
const INRPerUSD = 83

// Theme values as persisted.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Product represents a catalog product as returned by the catalog API
type Product struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}

// DiscountBadge returns the "-N%" badge shown for discounts above 10%.
func (p Product) DiscountBadge() string {
	if p.DiscountPercentage <= 10 {
		return ""
	}
	return fmt.Sprintf("-%d%%", int(math.Round(p.DiscountPercentage)))
}

// Gallery returns at most n images, falling back to the thumbnail.
func (p Product) Gallery(n int) []string {
	if len(p.Images) == 0 {
		if p.Thumbnail == "" {
			return nil
		}
		return []string{p.Thumbnail}
	}
	if n <= 0 || n > len(p.Images) {
		n = len(p.Images)
	}
	out := make([]string, n)
	copy(out, p.Images[:n])
	return out
}

// CartLine is one product and its quantity inside the cart.
// It serializes flat: product fields plus "quantity".
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal is price times quantity.
func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Cart is the ordered list of cart lines. At most one line per product id.
type Cart []CartLine

// Find returns the index of the line for id, or -1.
func (c Cart) Find(id int) int {
	for i, l := range c {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Subtotal sums every line total.
func (c Cart) Subtotal() float64 {
	var total float64
	for _, l := range c {
		total += l.LineTotal()
	}
	return total
}

// ItemCount sums quantities.
func (c Cart) ItemCount() int {
	var n int
	for _, l := range c {
		n += l.Quantity
	}
	return n
}

// Clone returns an independent copy of the cart.
func (c Cart) Clone() Cart {
	if c == nil {
		return Cart{}
	}
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// SortMode selects the ordering of the derived view.
type SortMode int

const (
	SortNewest SortMode = iota
	SortPriceAsc
	SortPriceDesc
	SortRating
)

// SortModes lists every mode in picker order.
var SortModes = []SortMode{SortPriceAsc, SortPriceDesc, SortRating, SortNewest}

func (m SortMode) String() string {
	switch m {
	case SortPriceAsc:
		return "Price: Low to High"
	case SortPriceDesc:
		return "Price: High to Low"
	case SortRating:
		return "Top Rated"
	default:
		return "Newest"
	}
}

// Key is the flag/config spelling of the mode.
func (m SortMode) Key() string {
	switch m {
	case SortPriceAsc:
		return "price-asc"
	case SortPriceDesc:
		return "price-desc"
	case SortRating:
		return "rating"
	default:
		return "newest"
	}
}

// Next cycles to the following mode in picker order.
func (m SortMode) Next() SortMode {
	for i, s := range SortModes {
		if s == m {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return SortNewest
}

// ParseSortMode accepts a flag key or a display label, case-insensitively.
func ParseSortMode(s string) (SortMode, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, m := range SortModes {
		if v == m.Key() || v == strings.ToLower(m.String()) {
			return m, nil
		}
	}
	if v == "" {
		return SortNewest, nil
	}
	return SortNewest, NewInvalidFilterError("sort", "unknown sort mode", s)
}

// FilterCriteria is the active search/category/price/sort selection.
type FilterCriteria struct {
	Search   string   `json:"search"`
	Category string   `json:"category"`
	MaxPrice float64  `json:"maxPrice"`
	Sort     SortMode `json:"sortBy"`
}

// DefaultFilters returns the criteria a session starts with.
func DefaultFilters() FilterCriteria {
	return FilterCriteria{
		Search:   "",
		Category: AllCategories,
		MaxPrice: DefaultMaxPrice,
		Sort:     SortNewest,
	}
}

// ResetFilters returns the criteria the reset action restores: the defaults
// with the price ceiling pulled back to ResetMaxPrice.
func ResetFilters() FilterCriteria {
	f := DefaultFilters()
	f.MaxPrice = ResetMaxPrice
	return f
}

// FilterPatch is a partial FilterCriteria update; nil fields are left unchanged.
type FilterPatch struct {
	Search   *string
	Category *string
	MaxPrice *float64
	Sort     *SortMode
}

// Apply merges the patch into f.
func (p FilterPatch) Apply(f FilterCriteria) FilterCriteria {
	if p.Search != nil {
		f.Search = *p.Search
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.MaxPrice != nil {
		f.MaxPrice = *p.MaxPrice
	}
	if p.Sort != nil {
		f.Sort = *p.Sort
	}
	return f
}

// ConvertToINR converts a USD price for rupee display.
func ConvertToINR(usd float64) float64 {
	return usd * INRPerUSD
}

// Display currencies.
const (
	CurrencyUSD = "USD"
	CurrencyINR = "INR"
)

// ParseCurrency normalizes a currency code; empty means USD.
func ParseCurrency(s string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", CurrencyUSD:
		return CurrencyUSD, nil
	case CurrencyINR:
		return CurrencyINR, nil
	}
	return "", NewInvalidFilterError("currency", "expected USD or INR", s)
}

// FormatPrice renders a USD catalog price in the display currency.
func FormatPrice(usd float64, currency string) string {
	if currency == CurrencyINR {
		return fmt.Sprintf("₹%.2f", ConvertToINR(usd))
	}
	return fmt.Sprintf("$%.2f", usd)
}

// KVStore is the durable string-keyed store used for cart and theme.
type KVStore interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
