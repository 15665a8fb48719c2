package handlers

import (
	"errors"

	"procurehub-be/internal/order"
	"procurehub-be/internal/pricing"
	"procurehub-be/internal/product"
	"procurehub-be/internal/report"

	"github.com/gofiber/fiber/v2"
)

// httpError maps the domain error taxonomy onto HTTP statuses. Everything
// typed is recoverable at this boundary; anything else is a 500.
func httpError(err error) error {
	switch {
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, pricing.ErrProductNotFound),
		errors.Is(err, pricing.ErrOverrideNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())

	case errors.Is(err, order.ErrForbidden),
		errors.Is(err, product.ErrForbidden),
		errors.Is(err, pricing.ErrForbidden),
		errors.Is(err, report.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())

	case errors.Is(err, order.ErrValidation),
		errors.Is(err, product.ErrValidation),
		errors.Is(err, pricing.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())

	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrProductUnavailable),
		errors.Is(err, order.ErrInsufficientStock),
		errors.Is(err, order.ErrPriceUnavailable):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, order.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())

	case errors.Is(err, order.ErrUnavailable),
		errors.Is(err, product.ErrUnavailable),
		errors.Is(err, pricing.ErrUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())

	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
