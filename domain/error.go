// Package domain defines error types for the storefront.
package domain

import (
	"errors"
	"fmt"
)

// ProductNotFoundError is returned when a product id is not in the catalog or cart
type ProductNotFoundError struct {
	ProductID int
}

// Error implements the error interface for ProductNotFoundError
func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: id=%d", e.ProductID)
}

// Is allows proper error type checking with errors.Is()
func (e *ProductNotFoundError) Is(target error) bool {
	_, ok := target.(*ProductNotFoundError)
	return ok
}

// InvalidFilterError is returned when a filter value cannot be parsed
type InvalidFilterError struct {
	Field  string
	Reason string
	Value  interface{}
}

// Error implements the error interface for InvalidFilterError
func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter: field=%s, reason=%s, value=%v", e.Field, e.Reason, e.Value)
}

// Is allows proper error type checking with errors.Is()
func (e *InvalidFilterError) Is(target error) bool {
	_, ok := target.(*InvalidFilterError)
	return ok
}

// FetchError is returned when the catalog could not be fetched.
// Message is the text shown to the user next to the retry action.
type FetchError struct {
	Status  int
	Message string
	Err     error
}

// Error implements the error interface for FetchError
func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying cause
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is allows proper error type checking with errors.Is()
func (e *FetchError) Is(target error) bool {
	_, ok := target.(*FetchError)
	return ok
}

// Helper functions for creating errors with context

// NewProductNotFoundError creates a new ProductNotFoundError
func NewProductNotFoundError(productID int) error {
	return &ProductNotFoundError{ProductID: productID}
}

// NewInvalidFilterError creates a new InvalidFilterError
func NewInvalidFilterError(field, reason string, value interface{}) error {
	return &InvalidFilterError{
		Field:  field,
		Reason: reason,
		Value:  value,
	}
}

// NewFetchError creates a new FetchError
func NewFetchError(status int, message string, err error) error {
	return &FetchError{Status: status, Message: message, Err: err}
}

// Type assertion helpers for use with errors.As()

// IsProductNotFoundError checks if an error is a ProductNotFoundError
func IsProductNotFoundError(err error) bool {
	var pnf *ProductNotFoundError
	return errors.As(err, &pnf)
}

// IsInvalidFilterError checks if an error is an InvalidFilterError
func IsInvalidFilterError(err error) bool {
	var ife *InvalidFilterError
	return errors.As(err, &ife)
}

// IsFetchError checks if an error is a FetchError
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// UserMessage returns the message to show for err: a FetchError's
// Message when present, otherwise err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return err.Error()
}
