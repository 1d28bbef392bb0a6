package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderSale     OrderType = "sale"
	OrderPurchase OrderType = "purchase"
)

func (t OrderType) Valid() bool { return t == OrderSale || t == OrderPurchase }

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	ReorderLevel int             `json:"reorderLevel"`
	Supplier     string          `json:"supplier"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Value is the stock value of the product (quantity x unit price).
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// LowStock reports 0 < quantity <= reorder level. Out of stock is not low stock.
func (p Product) LowStock() bool { return p.Quantity > 0 && p.Quantity <= p.ReorderLevel }

func (p Product) OutOfStock() bool { return p.Quantity == 0 }

// NewProduct holds the caller-supplied fields of a product.
type NewProduct struct {
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	ReorderLevel int             `json:"reorderLevel"`
	Supplier     string          `json:"supplier"`
	Description  string          `json:"description,omitempty"`
}

// ProductPatch is a partial update; nil fields are left unchanged.
type ProductPatch struct {
	Name         *string          `json:"name,omitempty"`
	SKU          *string          `json:"sku,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Quantity     *int             `json:"quantity,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	ReorderLevel *int             `json:"reorderLevel,omitempty"`
	Supplier     *string          `json:"supplier,omitempty"`
	Description  *string          `json:"description,omitempty"`
}

type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// LineTotal is quantity x price, independent of the stored subtotal.
func (it OrderItem) LineTotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

type Order struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	Type          OrderType       `json:"type"`
	Status        OrderStatus     `json:"status"`
	Items         []OrderItem     `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CustomerName  string          `json:"customerName,omitempty"`
	SupplierName  string          `json:"supplierName,omitempty"`
	OrderDate     time.Time       `json:"orderDate"`
	CompletedDate *time.Time      `json:"completedDate,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// NewOrder holds the caller-supplied fields of an order. A zero Status means pending,
// zero subtotals and a zero TotalAmount are filled in from the items.
type NewOrder struct {
	Type          OrderType       `json:"type"`
	Status        OrderStatus     `json:"status"`
	Items         []OrderItem     `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CustomerName  string          `json:"customerName,omitempty"`
	SupplierName  string          `json:"supplierName,omitempty"`
	OrderDate     time.Time       `json:"orderDate"`
	CompletedDate *time.Time      `json:"completedDate,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// OrderPatch is a partial update; nil fields are left unchanged.
type OrderPatch struct {
	Type          *OrderType       `json:"type,omitempty"`
	Status        *OrderStatus     `json:"status,omitempty"`
	Items         *[]OrderItem     `json:"items,omitempty"`
	TotalAmount   *decimal.Decimal `json:"totalAmount,omitempty"`
	CustomerName  *string          `json:"customerName,omitempty"`
	SupplierName  *string          `json:"supplierName,omitempty"`
	OrderDate     *time.Time       `json:"orderDate,omitempty"`
	CompletedDate *time.Time       `json:"completedDate,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

type InventoryStats struct {
	TotalProducts int             `json:"totalProducts"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	LowStockItems int             `json:"lowStockItems"`
	OutOfStock    int             `json:"outOfStock"`
	TotalOrders   int             `json:"totalOrders"`
	PendingOrders int             `json:"pendingOrders"`
}

type Availability struct {
	ProductID    string `json:"productId"`
	Status       string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty          int    `json:"qty"`
	ReorderLevel int    `json:"reorderLevel"`
}
