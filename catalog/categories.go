package catalog

import "storefront/domain"

// Categories returns the "All" sentinel followed by every distinct category
// in first-seen order.
func Categories(products []domain.Product) []string {
	out := []string{domain.AllCategories}
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// FindByID returns the product with id.
func FindByID(products []domain.Product, id int) (domain.Product, error) {
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.NewProductNotFoundError(id)
}

// NextCategory returns the category after current in cats, wrapping around.
// An unknown current restarts at the first entry.
func NextCategory(cats []string, current string, step int) string {
	if len(cats) == 0 {
		return domain.AllCategories
	}
	for i, c := range cats {
		if c == current {
			n := (i + step) % len(cats)
			if n < 0 {
				n += len(cats)
			}
			return cats[n]
		}
	}
	return cats[0]
}
