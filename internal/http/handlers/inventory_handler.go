package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "stockroom/internal/log"
	"stockroom/internal/services"
)

type InventoryHandler struct {
	StatsSvc *services.StatsService
	Inv      *services.InventoryService
}

// GET /api/v1/stats
func (h *InventoryHandler) Stats(c *fiber.Ctx) error {
	st, err := h.StatsSvc.Compute(c.UserContext())
	if err != nil {
		return fail(c, "stats.compute", err)
	}
	return c.JSON(st)
}

// GET /
func (h *InventoryHandler) Dashboard(c *fiber.Ctx) error {
	st, err := h.StatsSvc.Compute(c.UserContext())
	if err != nil {
		applog.Error(c, "dashboard.stats.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load inventory"})
	}
	reorder, err := h.Inv.Reorder(c.UserContext())
	if err != nil {
		applog.Error(c, "dashboard.reorder.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load inventory"})
	}
	rows := make([]fiber.Map, 0, len(reorder))
	for _, p := range reorder {
		rows = append(rows, fiber.Map{"P": p, "Status": services.StockStatus(p)})
	}
	return render(c, "dashboard", fiber.Map{"Stats": st, "Reorder": rows})
}
