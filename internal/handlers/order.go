package handlers

import (
	"strconv"
	"time"

	"procurehub-be/internal/order"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler serves the order lifecycle endpoints.
type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	Lines      []orderLineRequest `json:"lines"`
}

type decisionRequest struct {
	Action  string `json:"action"` // "approve" or "reject"
	Comment string `json:"comment"`
}

type markPackedRequest struct {
	Packed map[string]bool `json:"packed"` // line index -> packed
}

type orderLineView struct {
	ProductID     string  `json:"product_id"`
	ProductName   string  `json:"product_name"`
	Quantity      int     `json:"quantity"`
	UnitPrice     int64   `json:"unit_price"`
	BaseUnitPrice int64   `json:"base_unit_price"`
	GSTRate       float64 `json:"gst_rate"`
	LineTotal     int64   `json:"line_total"`
	IsOverride    bool    `json:"is_override"`
}

type trailEntryView struct {
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Action    string    `json:"action"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type orderView struct {
	ID                 string           `json:"id"`
	CustomerID         string           `json:"customer_id"`
	UserID             string           `json:"user_id"`
	DepartmentID       *string          `json:"department_id,omitempty"`
	Status             string           `json:"status"`
	Lines              []orderLineView  `json:"lines,omitempty"`
	TotalTax           int64            `json:"total_tax"`
	TotalPayable       int64            `json:"total_payable"`
	Trail              []trailEntryView `json:"trail,omitempty"`
	Packed             map[string]bool  `json:"packed,omitempty"`
	DispatchApprovedBy *string          `json:"dispatch_approved_by,omitempty"`
	DispatchedBy       *string          `json:"dispatched_by,omitempty"`
	DispatchedAt       *time.Time       `json:"dispatched_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func toOrderView(o *order.Order) orderView {
	v := orderView{
		ID:                 o.ID.String(),
		CustomerID:         o.CustomerID,
		UserID:             o.UserID,
		DepartmentID:       o.DepartmentID,
		Status:             string(o.Status),
		TotalTax:           o.TotalTax,
		TotalPayable:       o.TotalPayable,
		DispatchApprovedBy: o.DispatchApprovedBy,
		DispatchedBy:       o.DispatchedBy,
		DispatchedAt:       o.DispatchedAt,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	for _, l := range o.Lines {
		v.Lines = append(v.Lines, orderLineView(l))
	}
	for _, e := range o.Trail {
		v.Trail = append(v.Trail, trailEntryView{
			ActorID:   e.ActorID,
			ActorRole: e.ActorRole,
			Action:    e.Action,
			Message:   e.Message,
			CreatedAt: e.CreatedAt,
		})
	}
	if len(o.Packed) > 0 {
		v.Packed = make(map[string]bool, len(o.Packed))
		for i, packed := range o.Packed {
			v.Packed[strconv.Itoa(i)] = packed
		}
	}
	return v
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	lines := make([]order.NewLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, order.NewLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	o, err := h.svc.Create(c.UserContext(), req.CustomerID, lines)
	if err != nil {
		return httpError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toOrderView(o))
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	o, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(toOrderView(o))
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	var filter order.Filter

	if s := c.Query("status"); s != "" {
		status := order.Status(s)
		filter.Status = &status
	}
	if id := c.Query("customer_id"); id != "" {
		filter.CustomerID = &id
	}
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date_from")
		}
		filter.DateFrom = &t
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date_to")
		}
		filter.DateTo = &t
	}

	limit := int32(c.QueryInt("limit", 20))
	page := int32(c.QueryInt("page", 1))

	orders, err := h.svc.List(c.UserContext(), filter, limit, page)
	if err != nil {
		return httpError(err)
	}

	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	return c.JSON(fiber.Map{"orders": views})
}

func (h *OrderHandler) decide(c *fiber.Ctx, decide func(ctx *fiber.Ctx, orderID string, approve bool, comment string) (*order.Order, error)) error {
	var req decisionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var approve bool
	switch req.Action {
	case "approve":
		approve = true
	case "reject":
		approve = false
	default:
		return fiber.NewError(fiber.StatusBadRequest, "action must be approve or reject")
	}

	o, err := decide(c, c.Params("id"), approve, req.Comment)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(toOrderView(o))
}

func (h *OrderHandler) ApproveDept(c *fiber.Ctx) error {
	return h.decide(c, func(c *fiber.Ctx, orderID string, approve bool, comment string) (*order.Order, error) {
		return h.svc.ApproveDept(c.UserContext(), orderID, approve, comment)
	})
}

func (h *OrderHandler) ApproveHR(c *fiber.Ctx) error {
	return h.decide(c, func(c *fiber.Ctx, orderID string, approve bool, comment string) (*order.Order, error) {
		return h.svc.ApproveHR(c.UserContext(), orderID, approve, comment)
	})
}

func (h *OrderHandler) ApproveDispatch(c *fiber.Ctx) error {
	return h.decide(c, func(c *fiber.Ctx, orderID string, approve bool, comment string) (*order.Order, error) {
		return h.svc.ApproveDispatch(c.UserContext(), orderID, approve, comment)
	})
}

func (h *OrderHandler) MarkPacked(c *fiber.Ctx) error {
	var req markPackedRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	packed := make(map[int]bool, len(req.Packed))
	for k, v := range req.Packed {
		i, err := strconv.Atoi(k)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "packed keys must be line indexes")
		}
		packed[i] = v
	}

	o, err := h.svc.MarkPacked(c.UserContext(), c.Params("id"), packed)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(toOrderView(o))
}

func (h *OrderHandler) Dispatch(c *fiber.Ctx) error {
	o, err := h.svc.Dispatch(c.UserContext(), c.Params("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(toOrderView(o))
}
