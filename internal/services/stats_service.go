package services

import (
	"context"

	"github.com/shopspring/decimal"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
)

// StatsService derives the dashboard figures from the current collections.
// Nothing is cached: every call re-reads both repositories.
type StatsService struct {
	Products *repos.ProductRepo
	Orders   *repos.OrderRepo
}

func NewStatsService(products *repos.ProductRepo, orders *repos.OrderRepo) *StatsService {
	return &StatsService{Products: products, Orders: orders}
}

func (s *StatsService) Compute(ctx context.Context) (domain.InventoryStats, error) {
	products, err := s.Products.List(ctx)
	if err != nil {
		return domain.InventoryStats{}, err
	}
	orders, err := s.Orders.List(ctx)
	if err != nil {
		return domain.InventoryStats{}, err
	}
	return Aggregate(products, orders), nil
}

// Aggregate is the pure part of Compute.
func Aggregate(products []domain.Product, orders []domain.Order) domain.InventoryStats {
	st := domain.InventoryStats{
		TotalProducts: len(products),
		TotalValue:    decimal.Zero,
		TotalOrders:   len(orders),
	}
	for _, p := range products {
		st.TotalValue = st.TotalValue.Add(p.Value())
		switch {
		case p.OutOfStock():
			st.OutOfStock++
		case p.LowStock():
			st.LowStockItems++
		}
	}
	for _, o := range orders {
		if o.Status == domain.StatusPending {
			st.PendingOrders++
		}
	}
	return st
}
