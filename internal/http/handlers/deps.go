package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "stockroom/internal/log"
	"stockroom/internal/repos"
	"stockroom/internal/services"
	"stockroom/internal/store"
)

type Deps struct {
	Products *repos.ProductRepo
	Orders   *repos.OrderRepo

	ProductHandler   *ProductHandler
	OrderHandler     *OrderHandler
	InventoryHandler *InventoryHandler
}

func NewDeps(st store.Store, opts ...repos.Option) *Deps {
	prodRepo := repos.NewProductRepo(st, opts...)
	orderRepo := repos.NewOrderRepo(st, opts...)

	catalogSvc := services.NewCatalogService(prodRepo, orderRepo)
	invSvc := services.NewInventoryService(prodRepo)
	orderSvc := services.NewOrderService(prodRepo, orderRepo)
	statsSvc := services.NewStatsService(prodRepo, orderRepo)

	return &Deps{
		Products:         prodRepo,
		Orders:           orderRepo,
		ProductHandler:   &ProductHandler{Repo: prodRepo, Catalog: catalogSvc, Inv: invSvc},
		OrderHandler:     &OrderHandler{Repo: orderRepo, Order: orderSvc, Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{StatsSvc: statsSvc, Inv: invSvc},
	}
}

// Routes mounts the JSON API on r (normally app.Group("/api/v1")).
func (d *Deps) Routes(r fiber.Router) {
	writes := limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodGet
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Warn(c, "rate.write.hit", nil, nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	r.Use(writes)

	r.Get("/products", d.ProductHandler.List)
	r.Post("/products", d.ProductHandler.Create)
	r.Get("/products/:id", d.ProductHandler.Get)
	r.Patch("/products/:id", d.ProductHandler.Update)
	r.Delete("/products/:id", d.ProductHandler.Delete)
	r.Get("/products/:id/availability", d.ProductHandler.Availability)

	r.Get("/orders", d.OrderHandler.List)
	r.Post("/orders", d.OrderHandler.Create)
	r.Get("/orders/:id", d.OrderHandler.Get)
	r.Patch("/orders/:id", d.OrderHandler.Update)
	r.Post("/orders/:id/status", d.OrderHandler.SetStatus)
	r.Delete("/orders/:id", d.OrderHandler.Delete)

	r.Get("/stats", d.InventoryHandler.Stats)
}
