// Package view derives the visible product list from the catalog and the
// active filter criteria.
package view

import (
	"sort"
	"strings"

	"storefront/domain"
)

// Derive filters by category (AllCategories or "" keep everything), then
// search term, then price ceiling, and orders the survivors by f.Sort. Ties
// keep catalog order. The input slice is never modified and the result is
// always a fresh slice.
func Derive(products []domain.Product, f domain.FilterCriteria) []domain.Product {
	term := strings.ToLower(f.Search)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Category != domain.AllCategories && f.Category != "" && p.Category != f.Category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(p.Brand), term) {
			continue
		}
		if p.Price > f.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case domain.SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case domain.SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case domain.SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}

// CategoryLabel is the heading shown over the product list.
func CategoryLabel(category string) string {
	if category == domain.AllCategories || category == "" {
		return "Our Collection"
	}
	return strings.Replace(category, "-", " ", 1)
}
