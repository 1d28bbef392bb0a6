package handlers

import (
	"github.com/gofiber/fiber/v2"

	"stockroom/internal/domain"
	applog "stockroom/internal/log"
	"stockroom/internal/repos"
	"stockroom/internal/services"
	"stockroom/internal/validate"
)

type ProductHandler struct {
	Repo    *repos.ProductRepo
	Catalog *services.CatalogService
	Inv     *services.InventoryService
}

// GET /api/v1/products?q=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := c.Query("q")
	if q != "" {
		var ok bool
		if q, ok = validate.Q(q); !ok {
			return badRequest(c, "q", "invalid search query")
		}
	}
	out, err := h.Catalog.SearchProducts(c.UserContext(), q)
	if err != nil {
		return fail(c, "products.list", err)
	}
	return c.JSON(out)
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	p, err := h.Repo.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "products.get", err)
	}
	return c.JSON(p)
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in domain.NewProduct
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid product payload")
	}
	p, err := h.Repo.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, "products.create", err)
	}
	applog.Audit(c, "products.create", map[string]any{"product_id": p.ID, "sku": p.SKU, "qty": p.Quantity})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PATCH /api/v1/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	var patch domain.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "body", "invalid product payload")
	}
	p, err := h.Repo.Update(c.UserContext(), id, patch)
	if err != nil {
		return fail(c, "products.update", err)
	}
	applog.Audit(c, "products.update", map[string]any{"product_id": p.ID, "qty": p.Quantity})
	return c.JSON(p)
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	removed, err := h.Repo.Delete(c.UserContext(), id)
	if err != nil {
		return fail(c, "products.delete", err)
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	applog.Audit(c, "products.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/products/:id/availability
func (h *ProductHandler) Availability(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	a, err := h.Inv.Availability(c.UserContext(), id)
	if err != nil {
		return fail(c, "products.availability", err)
	}
	return c.JSON(a)
}
