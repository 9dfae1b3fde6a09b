// Package util provides small helpers shared by the storefront packages.
package util

import "github.com/google/uuid"

// NewRequestID returns a random v4 UUID used to correlate outbound calls in logs.
func NewRequestID() string {
	return uuid.NewString()
}
