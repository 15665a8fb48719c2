package handlers

import (
	"time"

	"procurehub-be/internal/product"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	svc product.Service
}

func NewProductHandler(svc product.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type createProductRequest struct {
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	Make              string  `json:"make"`
	Model             string  `json:"model"`
	BasePrice         int64   `json:"base_price"`
	Stock             int     `json:"stock"`
	GSTRate           float64 `json:"gst_rate"`
	LowStockThreshold int     `json:"low_stock_threshold"`
}

type updateProductRequest struct {
	Name              *string  `json:"name"`
	Category          *string  `json:"category"`
	Make              *string  `json:"make"`
	Model             *string  `json:"model"`
	BasePrice         *int64   `json:"base_price"`
	Stock             *int     `json:"stock"`
	GSTRate           *float64 `json:"gst_rate"`
	LowStockThreshold *int     `json:"low_stock_threshold"`
	Active            *bool    `json:"active"`
}

type productView struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	Make              string    `json:"make"`
	Model             string    `json:"model"`
	BasePrice         int64     `json:"base_price"`
	Stock             int       `json:"stock"`
	GSTRate           float64   `json:"gst_rate"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	LowStock          bool      `json:"low_stock"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toProductView(p *product.Product) productView {
	return productView{
		ID:                p.ID,
		Name:              p.Name,
		Category:          p.Category,
		Make:              p.Make,
		Model:             p.Model,
		BasePrice:         p.BasePrice,
		Stock:             p.Stock,
		GSTRate:           p.GSTRate,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.LowStock(),
		Active:            p.Active,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit := int32(c.QueryInt("limit", 20))
	page := int32(c.QueryInt("page", 1))
	activeOnly := c.QueryBool("active_only", true)

	products, err := h.svc.List(c.UserContext(), activeOnly, limit, page)
	if err != nil {
		return httpError(err)
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	return c.JSON(fiber.Map{"products": views})
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	p, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(toProductView(p))
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	p, err := h.svc.Create(c.UserContext(), product.NewProduct{
		Name:              req.Name,
		Category:          req.Category,
		Make:              req.Make,
		Model:             req.Model,
		BasePrice:         req.BasePrice,
		Stock:             req.Stock,
		GSTRate:           req.GSTRate,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		return httpError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProductView(p))
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req updateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	p, err := h.svc.Update(c.UserContext(), product.UpdateProduct{
		ID:                c.Params("id"),
		Name:              req.Name,
		Category:          req.Category,
		Make:              req.Make,
		Model:             req.Model,
		BasePrice:         req.BasePrice,
		Stock:             req.Stock,
		GSTRate:           req.GSTRate,
		LowStockThreshold: req.LowStockThreshold,
		Active:            req.Active,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(toProductView(p))
}
