package services

import (
	"errors"
	"fmt"
)

// Validation errors: no state was changed when these surface.
var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

// State-conflict errors: the requested transition is not legal.
var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidToken           = errors.New("invalid confirmation token")
	ErrAlreadyConfirmed       = errors.New("order already confirmed")
	ErrCancellationNotAllowed = errors.New("order already shipped or delivered, cannot cancel")
	ErrInvalidStatus          = errors.New("unknown status")
)

// ErrInsufficientStock is the sentinel matched by errors.Is; the concrete
// error carries the offending product's name.
var ErrInsufficientStock = errors.New("insufficient stock")

type InsufficientStockError struct {
	Product string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.Product)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
