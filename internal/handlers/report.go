package handlers

import (
	"procurehub-be/internal/report"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	svc report.Service
}

func NewReportHandler(svc report.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) CustomerReport(c *fiber.Ctx) error {
	r, err := h.svc.CustomerReport(c.UserContext(), c.Params("customerID"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(r)
}

func (h *ReportHandler) ProductRanking(c *fiber.Ctx) error {
	ranking, err := h.svc.ProductDiscountRanking(c.UserContext(), c.Params("productID"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(fiber.Map{"ranking": ranking})
}
