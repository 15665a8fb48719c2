package pricing

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrOverrideNotFound = errors.New("override not found")
	ErrForbidden        = errors.New("forbidden")
	ErrValidation       = errors.New("validation failed")
	ErrUnavailable      = errors.New("store unavailable")
)
