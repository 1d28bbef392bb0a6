package handlers

import (
	"github.com/gofiber/fiber/v2"

	"stockroom/internal/domain"
	applog "stockroom/internal/log"
	"stockroom/internal/repos"
	"stockroom/internal/services"
	"stockroom/internal/validate"
)

type OrderHandler struct {
	Repo    *repos.OrderRepo
	Order   *services.OrderService
	Catalog *services.CatalogService
}

// createOrderRequest accepts either full items or product lines to price
// against the current catalog.
type createOrderRequest struct {
	domain.NewOrder
	Lines []services.Line `json:"lines"`
}

// GET /api/v1/orders?q=&type=&status=
func (h *OrderHandler) List(c *fiber.Ctx) error {
	f := services.OrderFilter{
		Type:   domain.OrderType(c.Query("type")),
		Status: domain.OrderStatus(c.Query("status")),
	}
	if f.Type != "" && !f.Type.Valid() {
		return badRequest(c, "type", "type must be sale or purchase")
	}
	if f.Status != "" && !f.Status.Valid() {
		return badRequest(c, "status", "unknown status")
	}
	if q := c.Query("q"); q != "" {
		var ok bool
		if f.Query, ok = validate.Q(q); !ok {
			return badRequest(c, "q", "invalid search query")
		}
	}
	out, err := h.Catalog.FilterOrders(c.UserContext(), f)
	if err != nil {
		return fail(c, "orders.list", err)
	}
	return c.JSON(out)
}

// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id", "invalid order id")
	}
	o, err := h.Repo.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "orders.get", err)
	}
	return c.JSON(o)
}

// POST /api/v1/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "invalid order payload")
	}
	var (
		o   domain.Order
		err error
	)
	if len(req.Lines) > 0 {
		o, err = h.Order.Place(c.UserContext(), req.NewOrder, req.Lines)
	} else {
		o, err = h.Repo.Create(c.UserContext(), req.NewOrder)
	}
	if err != nil {
		return fail(c, "orders.create", err)
	}
	applog.Audit(c, "orders.create", map[string]any{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"type":         o.Type,
		"total":        o.TotalAmount.String(),
	})
	return c.Status(fiber.StatusCreated).JSON(o)
}

// PATCH /api/v1/orders/:id
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id", "invalid order id")
	}
	var patch domain.OrderPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "body", "invalid order payload")
	}
	o, err := h.Repo.Update(c.UserContext(), id, patch)
	if err != nil {
		return fail(c, "orders.update", err)
	}
	applog.Audit(c, "orders.update", map[string]any{"order_id": o.ID, "status": o.Status})
	return c.JSON(o)
}

// POST /api/v1/orders/:id/status
func (h *OrderHandler) SetStatus(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id", "invalid order id")
	}
	var body struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || !body.Status.Valid() {
		return badRequest(c, "status", "status must be pending, processing, completed or cancelled")
	}
	o, err := h.Order.SetStatus(c.UserContext(), id, body.Status)
	if err != nil {
		return fail(c, "orders.status", err)
	}
	applog.Audit(c, "orders.status", map[string]any{"order_id": o.ID, "status": o.Status})
	return c.JSON(o)
}

// DELETE /api/v1/orders/:id
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id", "invalid order id")
	}
	removed, err := h.Repo.Delete(c.UserContext(), id)
	if err != nil {
		return fail(c, "orders.delete", err)
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	applog.Audit(c, "orders.delete", map[string]any{"order_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
