package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"stockroom/internal/domain"
)

var (
	reID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reQ  = regexp.MustCompile(`^[\p{L}\p{N} _.'"/#-]{1,50}$`)
)

const (
	maxText = 120
	maxSKU  = 64
	maxQ    = 50
)

// ValidationError reports the first field that broke a record invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func fail(field, reason string) error { return &ValidationError{Field: field, Reason: reason} }

// ID validates a resource identifier taken from a URL.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// SKU validates a stock-keeping unit code. Any printable text is accepted.
func SKU(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > maxSKU {
		return "", false
	}
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return "", false
		}
	}
	return s, true
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if r := []rune(s); len(r) > maxQ {
		s = string(r[:maxQ])
	}
	return s, reQ.MatchString(s)
}

// Name validates a required display name.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxText {
		return "", false
	}
	return s, true
}

// Product checks a full product record. Name and SKU are trimmed in place.
func Product(p *domain.Product) error {
	name, ok := Name(p.Name)
	if !ok {
		return fail("name", fmt.Sprintf("required, at most %d characters", maxText))
	}
	p.Name = name
	sku, ok := SKU(p.SKU)
	if !ok {
		return fail("sku", fmt.Sprintf("required, at most %d printable characters", maxSKU))
	}
	p.SKU = sku
	if len(p.Category) > maxText {
		return fail("category", "too long")
	}
	if len(p.Supplier) > maxText {
		return fail("supplier", "too long")
	}
	if p.Quantity < 0 {
		return fail("quantity", "must not be negative")
	}
	if p.Price.IsNegative() {
		return fail("price", "must not be negative")
	}
	if p.ReorderLevel < 0 {
		return fail("reorderLevel", "must not be negative")
	}
	return nil
}

// Order checks a full order record, including the item and total arithmetic.
func Order(o *domain.Order) error {
	if !o.Type.Valid() {
		return fail("type", "must be sale or purchase")
	}
	if !o.Status.Valid() {
		return fail("status", "must be pending, processing, completed or cancelled")
	}
	if len(o.Items) == 0 {
		return fail("items", "at least one item is required")
	}
	sum := decimal.Zero
	for i, it := range o.Items {
		field := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(it.ProductID) == "" {
			return fail(field+".productId", "required")
		}
		if it.Quantity <= 0 {
			return fail(field+".quantity", "must be positive")
		}
		if it.Price.IsNegative() {
			return fail(field+".price", "must not be negative")
		}
		if !it.Subtotal.Equal(it.LineTotal()) {
			return fail(field+".subtotal", "must equal quantity x price")
		}
		sum = sum.Add(it.Subtotal)
	}
	if !o.TotalAmount.Equal(sum) {
		return fail("totalAmount", "must equal the sum of item subtotals")
	}
	switch o.Type {
	case domain.OrderSale:
		if o.SupplierName != "" {
			return fail("supplierName", "not allowed on a sale")
		}
	case domain.OrderPurchase:
		if o.CustomerName != "" {
			return fail("customerName", "not allowed on a purchase")
		}
	}
	if o.CompletedDate != nil && o.Status != domain.StatusCompleted {
		return fail("completedDate", "only set on a completed order")
	}
	if len(o.CustomerName) > maxText || len(o.SupplierName) > maxText {
		return fail("name", "too long")
	}
	return nil
}
