package repos

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stockroom/internal/domain"
	applog "stockroom/internal/log"
)

var seedProducts = []domain.NewProduct{
	{
		Name: `Laptop Pro 15"`, SKU: "LAP-001", Category: "Electronics",
		Quantity: 45, Price: decimal.NewFromInt(89999), ReorderLevel: 10,
		Supplier: "Tech Supplies Inc", Description: "High-performance laptop for professionals",
	},
	{
		Name: "Wireless Mouse", SKU: "MOU-002", Category: "Accessories",
		Quantity: 8, Price: decimal.NewFromInt(1999), ReorderLevel: 15,
		Supplier: "Peripheral World", Description: "Ergonomic wireless mouse",
	},
	{
		Name: "Office Chair", SKU: "FUR-003", Category: "Furniture",
		Quantity: 0, Price: decimal.NewFromInt(24999), ReorderLevel: 5,
		Supplier: "Office Furniture Co", Description: "Ergonomic office chair with lumbar support",
	},
	{
		Name: "USB-C Cable", SKU: "CAB-004", Category: "Accessories",
		Quantity: 150, Price: decimal.NewFromInt(899), ReorderLevel: 50,
		Supplier: "Cable Masters", Description: "6ft USB-C charging cable",
	},
}

// EnsureSeedData fills an empty product collection with demo products and an
// empty order collection with demo orders. Safe to run on every start: each
// collection is only seeded while it is empty. The two collections are written
// independently.
func EnsureSeedData(ctx context.Context, products *ProductRepo, orders *OrderRepo) error {
	existing, err := products.items.read(ctx, false)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		applog.Info(nil, "seed.products", map[string]any{"count": len(seedProducts)})
		for _, p := range seedProducts {
			if _, err := products.Create(ctx, p); err != nil {
				return err
			}
		}
	}

	existingOrders, err := orders.items.read(ctx, false)
	if err != nil {
		return err
	}
	if len(existingOrders) > 0 {
		return nil
	}
	all, err := products.items.read(ctx, false)
	if err != nil {
		return err
	}
	bySKU := make(map[string]domain.Product, len(all))
	for _, p := range all {
		bySKU[p.SKU] = p
	}

	now := orders.stamp()
	completed := now.Add(-24 * time.Hour)
	samples := []struct {
		sku   string
		qty   int
		order domain.NewOrder
	}{
		{"LAP-001", 2, domain.NewOrder{
			Type: domain.OrderSale, Status: domain.StatusCompleted,
			CustomerName: "Acme Corporation",
			OrderDate:    now.Add(-48 * time.Hour), CompletedDate: &completed,
		}},
		{"FUR-003", 10, domain.NewOrder{
			Type: domain.OrderPurchase, Status: domain.StatusPending,
			SupplierName: "Office Furniture Co",
			OrderDate:    now,
		}},
	}
	created := 0
	for _, s := range samples {
		p, ok := bySKU[s.sku]
		if !ok {
			applog.Warn(nil, "seed.orders.skip", nil, map[string]any{"sku": s.sku})
			continue
		}
		item := domain.OrderItem{ProductID: p.ID, ProductName: p.Name, Quantity: s.qty, Price: p.Price}
		item.Subtotal = item.LineTotal()
		s.order.Items = []domain.OrderItem{item}
		s.order.TotalAmount = item.Subtotal
		if _, err := orders.Create(ctx, s.order); err != nil {
			return err
		}
		created++
	}
	applog.Info(nil, "seed.orders", map[string]any{"count": created})
	return nil
}
