package services

import (
	"context"
	"strings"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
)

// CatalogService does the list filtering the screens need. It only reads.
type CatalogService struct {
	Products *repos.ProductRepo
	Orders   *repos.OrderRepo
}

func NewCatalogService(products *repos.ProductRepo, orders *repos.OrderRepo) *CatalogService {
	return &CatalogService{Products: products, Orders: orders}
}

// SearchProducts matches q case-insensitively against name, sku, category and supplier.
func (s *CatalogService) SearchProducts(ctx context.Context, q string) ([]domain.Product, error) {
	all, err := s.Products.List(ctx)
	if err != nil || q == "" {
		return all, err
	}
	q = strings.ToLower(q)
	out := []domain.Product{}
	for _, p := range all {
		if containsAny(q, p.Name, p.SKU, p.Category, p.Supplier) {
			out = append(out, p)
		}
	}
	return out, nil
}

type OrderFilter struct {
	Query  string
	Type   domain.OrderType
	Status domain.OrderStatus
}

// FilterOrders keeps orders of the given type and status (empty means any) whose
// order number, customer or supplier contains Query.
func (s *CatalogService) FilterOrders(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	all, err := s.Orders.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(f.Query)
	out := []domain.Order{}
	for _, o := range all {
		if f.Type != "" && o.Type != f.Type {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if q != "" && !containsAny(q, o.OrderNumber, o.CustomerName, o.SupplierName) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func containsAny(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
