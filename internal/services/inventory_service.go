package services

import (
	"context"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
)

const (
	InStock    = "IN_STOCK"
	LowStock   = "LOW_STOCK"
	OutOfStock = "OUT_OF_STOCK"
)

type InventoryService struct {
	Products *repos.ProductRepo
}

func NewInventoryService(products *repos.ProductRepo) *InventoryService {
	return &InventoryService{Products: products}
}

// StockStatus converts qty to IN_STOCK / LOW_STOCK / OUT_OF_STOCK against the reorder level.
func StockStatus(p domain.Product) string {
	switch {
	case p.OutOfStock():
		return OutOfStock
	case p.LowStock():
		return LowStock
	}
	return InStock
}

func (s *InventoryService) Availability(ctx context.Context, productID string) (domain.Availability, error) {
	p, err := s.Products.Get(ctx, productID)
	if err != nil {
		return domain.Availability{}, err
	}
	return domain.Availability{
		ProductID:    p.ID,
		Status:       StockStatus(p),
		Qty:          p.Quantity,
		ReorderLevel: p.ReorderLevel,
	}, nil
}

// Reorder lists products at or below their reorder level, out-of-stock ones included.
func (s *InventoryService) Reorder(ctx context.Context) ([]domain.Product, error) {
	all, err := s.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.Product{}
	for _, p := range all {
		if p.OutOfStock() || p.LowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}
