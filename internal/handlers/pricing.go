package handlers

import (
	"time"

	"procurehub-be/internal/pricing"

	"github.com/gofiber/fiber/v2"
)

type PricingHandler struct {
	svc pricing.Service
}

func NewPricingHandler(svc pricing.Service) *PricingHandler {
	return &PricingHandler{svc: svc}
}

type setOverrideRequest struct {
	UnitPrice int64 `json:"unit_price"`
}

type overrideView struct {
	CustomerID string    `json:"customer_id"`
	ProductID  string    `json:"product_id"`
	UnitPrice  int64     `json:"unit_price"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toOverrideView(o *pricing.Override) overrideView {
	return overrideView{
		CustomerID: o.CustomerID,
		ProductID:  o.ProductID,
		UnitPrice:  o.UnitPrice,
		CreatedBy:  o.CreatedBy,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func (h *PricingHandler) Resolve(c *fiber.Ctx) error {
	resolved, err := h.svc.ResolvePrice(c.UserContext(), c.Params("customerID"), c.Params("productID"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(fiber.Map{
		"unit_price":  resolved.UnitPrice,
		"is_override": resolved.IsOverride,
	})
}

func (h *PricingHandler) SetOverride(c *fiber.Ctx) error {
	var req setOverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	o, err := h.svc.SetOverride(c.UserContext(), c.Params("customerID"), c.Params("productID"), req.UnitPrice)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(toOverrideView(o))
}

func (h *PricingHandler) RemoveOverride(c *fiber.Ctx) error {
	if err := h.svc.RemoveOverride(c.UserContext(), c.Params("customerID"), c.Params("productID")); err != nil {
		return httpError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PricingHandler) ListOverrides(c *fiber.Ctx) error {
	overrides, err := h.svc.ListCustomerOverrides(c.UserContext(), c.Params("customerID"))
	if err != nil {
		return httpError(err)
	}

	views := make([]overrideView, 0, len(overrides))
	for _, o := range overrides {
		views = append(views, toOverrideView(o))
	}
	return c.JSON(fiber.Map{"overrides": views})
}
