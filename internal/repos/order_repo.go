package repos

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"stockroom/internal/domain"
	"stockroom/internal/store"
	"stockroom/internal/validate"
)

// OrderRepo owns the order collection and the order-number counter.
type OrderRepo struct {
	base
	mu    sync.Mutex
	st    store.Store
	items collection[domain.Order]
}

func NewOrderRepo(st store.Store, opts ...Option) *OrderRepo {
	return &OrderRepo{base: newBase(opts), st: st, items: collection[domain.Order]{st: st, key: OrdersKey}}
}

func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	return r.items.read(ctx, true)
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	all, err := r.List(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	if i := indexOrder(all, id); i >= 0 {
		return all[i], nil
	}
	return domain.Order{}, ErrNotFound
}

// Create stores a new order. Missing status defaults to pending, zero subtotals
// and a zero total are derived from the items, and a completed order without a
// completion date gets one.
func (r *OrderRepo) Create(ctx context.Context, in domain.NewOrder) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.items.read(ctx, false)
	if err != nil {
		return domain.Order{}, err
	}
	now := r.stamp()
	o := domain.Order{
		Type:          in.Type,
		Status:        in.Status,
		Items:         normalizeItems(in.Items),
		TotalAmount:   in.TotalAmount,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		SupplierName:  strings.TrimSpace(in.SupplierName),
		OrderDate:     in.OrderDate.UTC(),
		CompletedDate: in.CompletedDate,
		Notes:         in.Notes,
	}
	if o.Status == "" {
		o.Status = domain.StatusPending
	}
	if o.TotalAmount.IsZero() {
		o.TotalAmount = sumItems(o.Items)
	}
	if in.OrderDate.IsZero() {
		o.OrderDate = now
	}
	if o.Status == domain.StatusCompleted && o.CompletedDate == nil {
		o.CompletedDate = &now
	}
	if err := validate.Order(&o); err != nil {
		return domain.Order{}, err
	}

	seq, err := r.nextSeq(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	o.ID = r.newID()
	o.OrderNumber = fmt.Sprintf("ORD-%d-%d", now.UnixMilli(), seq)

	if err := r.items.write(ctx, append(all, o)); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// Update overlays the non-nil fields of patch onto the order with id. Moving to
// completed stamps CompletedDate unless the patch carries one; moving to any
// other status clears it. A CompletedDate on an order that ends up not
// completed is a ValidationError.
func (r *OrderRepo) Update(ctx context.Context, id string, patch domain.OrderPatch) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.items.read(ctx, false)
	if err != nil {
		return domain.Order{}, err
	}
	i := indexOrder(all, id)
	if i < 0 {
		return domain.Order{}, ErrNotFound
	}
	prev := all[i]
	o := prev
	if patch.Type != nil {
		o.Type = *patch.Type
	}
	if patch.Items != nil {
		o.Items = normalizeItems(*patch.Items)
		if patch.TotalAmount == nil {
			o.TotalAmount = sumItems(o.Items)
		}
	}
	if patch.TotalAmount != nil {
		o.TotalAmount = *patch.TotalAmount
	}
	if patch.CustomerName != nil {
		o.CustomerName = strings.TrimSpace(*patch.CustomerName)
	}
	if patch.SupplierName != nil {
		o.SupplierName = strings.TrimSpace(*patch.SupplierName)
	}
	if patch.OrderDate != nil {
		o.OrderDate = patch.OrderDate.UTC()
	}
	if patch.Notes != nil {
		o.Notes = *patch.Notes
	}
	if patch.CompletedDate != nil {
		t := patch.CompletedDate.UTC()
		o.CompletedDate = &t
	}
	if patch.Status != nil {
		o.Status = *patch.Status
		switch {
		case o.Status != domain.StatusCompleted:
			o.CompletedDate = nil
		case patch.CompletedDate == nil && (prev.Status != domain.StatusCompleted || prev.CompletedDate == nil):
			now := r.stamp()
			o.CompletedDate = &now
		}
	}
	if err := validate.Order(&o); err != nil {
		return domain.Order{}, err
	}
	all[i] = o
	if err := r.items.write(ctx, all); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrderRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.items.read(ctx, false)
	if err != nil {
		return false, err
	}
	i := indexOrder(all, id)
	if i < 0 {
		return false, nil
	}
	if err := r.items.write(ctx, append(all[:i], all[i+1:]...)); err != nil {
		return false, err
	}
	return true, nil
}

// nextSeq increments the persisted order counter. Callers hold mu.
func (r *OrderRepo) nextSeq(ctx context.Context) (int64, error) {
	var seq int64
	b, ok, err := r.st.Get(ctx, OrderSeqKey)
	if err != nil {
		return 0, err
	}
	if ok && len(b) > 0 {
		seq, err = strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrDecode, OrderSeqKey, err)
		}
	}
	seq++
	if err := r.st.Set(ctx, OrderSeqKey, []byte(strconv.FormatInt(seq, 10))); err != nil {
		return 0, err
	}
	return seq, nil
}

func normalizeItems(in []domain.OrderItem) []domain.OrderItem {
	out := make([]domain.OrderItem, len(in))
	for i, it := range in {
		if it.Subtotal.IsZero() {
			it.Subtotal = it.LineTotal()
		}
		out[i] = it
	}
	return out
}

func sumItems(items []domain.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal)
	}
	return sum
}

func indexOrder(all []domain.Order, id string) int {
	for i := range all {
		if all[i].ID == id {
			return i
		}
	}
	return -1
}
