package product

import "errors"

var (
	ErrNotFound    = errors.New("product not found")
	ErrForbidden   = errors.New("forbidden")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("store unavailable")
)
