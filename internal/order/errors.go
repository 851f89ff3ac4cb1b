package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidUser       = errors.New("invalid or inactive user")
	ErrUserInactive      = errors.New("cannot confirm order: user is inactive")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrOrderLocked       = errors.New("cannot modify a non-pending order")
	ErrInvalidItem       = errors.New("invalid item data")
	ErrInvalidIndex      = errors.New("invalid item index")
	ErrNotCancellable    = errors.New("order cannot be cancelled")

	ErrEmptyUserID  = errors.New("user id is required")
	ErrNoItems      = errors.New("order must contain at least one item")
	ErrInvalidTotal = errors.New("total amount must be greater than zero")
)
