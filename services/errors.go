package services

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrCalculationNotFound = errors.New("calculation not found")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidOperation    = errors.New("invalid operation")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrGeocodeFailed       = errors.New("could not resolve coordinates from address")
	ErrPaymentGateway      = errors.New("payment gateway request failed")
)

// InsufficientStockError carries the stock that was actually available when
// the mutation was refused.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: only %d available", e.ProductName, e.Available)
}

// CheckoutError wraps any failure raised inside the checkout transaction.
// When it is returned, the whole unit has been rolled back.
type CheckoutError struct {
	Err error
}

func (e *CheckoutError) Error() string {
	return "failed to create order: " + e.Err.Error()
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}
