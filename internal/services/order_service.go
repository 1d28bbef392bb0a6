package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
)

type OrderService struct {
	Products *repos.ProductRepo
	Orders   *repos.OrderRepo
}

func NewOrderService(products *repos.ProductRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{Products: products, Orders: orders}
}

// AddItem adds qty of product to items. The line snapshots the product's name
// and price; adding a product that is already a line raises that line's quantity
// at its original price.
func AddItem(items []domain.OrderItem, p domain.Product, qty int) ([]domain.OrderItem, error) {
	if qty <= 0 {
		return items, errors.New("quantity must be positive")
	}
	out := make([]domain.OrderItem, len(items), len(items)+1)
	copy(out, items)
	for i := range out {
		if out[i].ProductID == p.ID {
			out[i].Quantity += qty
			out[i].Subtotal = out[i].LineTotal()
			return out, nil
		}
	}
	it := domain.OrderItem{ProductID: p.ID, ProductName: p.Name, Quantity: qty, Price: p.Price}
	it.Subtotal = it.LineTotal()
	return append(out, it), nil
}

func RemoveItem(items []domain.OrderItem, productID string) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}

func Total(items []domain.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal)
	}
	return sum
}

// Line names a product and quantity for Place.
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Place builds the items of in from lines against the current products and
// creates the order. Unknown product ids fail with repos.ErrNotFound.
func (s *OrderService) Place(ctx context.Context, in domain.NewOrder, lines []Line) (domain.Order, error) {
	items := in.Items
	for _, l := range lines {
		p, err := s.Products.Get(ctx, l.ProductID)
		if err != nil {
			return domain.Order{}, err
		}
		if items, err = AddItem(items, p, l.Quantity); err != nil {
			return domain.Order{}, err
		}
	}
	in.Items = items
	// Create derives the total after filling in missing subtotals.
	in.TotalAmount = decimal.Zero
	return s.Orders.Create(ctx, in)
}

// SetStatus moves an order to status; the repository keeps CompletedDate in step.
func (s *OrderService) SetStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	return s.Orders.Update(ctx, id, domain.OrderPatch{Status: &status})
}
