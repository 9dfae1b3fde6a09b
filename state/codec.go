package state

import (
	"encoding/json"
	"fmt"

	"storefront/domain"
)

// EncodeCart serializes the cart as a JSON array of flat cart lines.
func EncodeCart(c domain.Cart) (string, error) {
	data, err := json.Marshal(c.Clone())
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(data), nil
}

// DecodeCart parses a persisted cart. Lines with a non-positive quantity are
// dropped and repeated product ids are merged into the first line.
func DecodeCart(s string) (domain.Cart, error) {
	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(s), &lines); err != nil {
		return domain.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	cart := make(domain.Cart, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i := cart.Find(l.ID); i >= 0 {
			cart[i].Quantity += l.Quantity
			continue
		}
		cart = append(cart, l)
	}
	return cart, nil
}
