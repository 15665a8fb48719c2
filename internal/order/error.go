package order

import "errors"

var (
	ErrNotFound           = errors.New("order not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrValidation         = errors.New("validation failed")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrPriceUnavailable   = errors.New("price unavailable")
	ErrConflict           = errors.New("order modified concurrently")
	ErrUnavailable        = errors.New("store unavailable")
)
