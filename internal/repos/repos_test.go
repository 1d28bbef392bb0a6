package repos_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
	"stockroom/internal/store"
	"stockroom/internal/validate"
)

var t0 = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func fixedClock() func() time.Time { return func() time.Time { return t0 } }

// flakyStore fails reads and/or writes with ErrUnavailable on demand.
type flakyStore struct {
	*store.MemoryStore
	failGet, failSet bool
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failGet {
		return nil, false, fmt.Errorf("%w: connection refused", store.ErrUnavailable)
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return fmt.Errorf("%w: connection refused", store.ErrUnavailable)
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func widget() domain.NewProduct {
	return domain.NewProduct{Name: "Widget", SKU: "W-1", Quantity: 5, Price: decimal.NewFromInt(10), ReorderLevel: 10}
}

func saleOrder(productID string) domain.NewOrder {
	return domain.NewOrder{
		Type: domain.OrderSale,
		Items: []domain.OrderItem{
			{ProductID: productID, ProductName: "Widget", Quantity: 2, Price: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(20)},
		},
		TotalAmount: decimal.NewFromInt(20),
		Status:      domain.StatusPending,
	}
}

func TestProductCreateAndList(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(store.NewMemoryStore())

	empty, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)

	a, err := r.Create(ctx, widget())
	require.NoError(t, err)
	b, err := r.Create(ctx, domain.NewProduct{Name: "Gadget", SKU: "G-1", Price: decimal.NewFromFloat(2.5)})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.CreatedAt.Equal(a.UpdatedAt))

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID, "insertion order")
	assert.Equal(t, "Widget", all[0].Name)
	assert.Equal(t, "W-1", all[0].SKU)
	assert.Equal(t, 5, all[0].Quantity)
	assert.True(t, decimal.NewFromInt(10).Equal(all[0].Price))
	assert.True(t, a.CreatedAt.Equal(all[0].CreatedAt))
}

func TestProductUpdateMerges(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(store.NewMemoryStore(), repos.WithClock(fixedClock()))

	p, err := r.Create(ctx, widget())
	require.NoError(t, err)

	qty := 0
	desc := "discontinued"
	got, err := r.Update(ctx, p.ID, domain.ProductPatch{Quantity: &qty, Description: &desc})
	require.NoError(t, err)

	assert.Equal(t, 0, got.Quantity)
	assert.Equal(t, "discontinued", got.Description)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.SKU, got.SKU)
	assert.True(t, p.Price.Equal(got.Price))
	assert.Equal(t, p.ReorderLevel, got.ReorderLevel)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, got.UpdatedAt.After(p.UpdatedAt), "clock did not move but updatedAt must")

	again, err := r.Update(ctx, p.ID, domain.ProductPatch{})
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.After(got.UpdatedAt))

	stored, err := r.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.Equal(stored.UpdatedAt))
}

func TestProductUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(store.NewMemoryStore())
	name := "x"
	_, err := r.Update(ctx, "missing", domain.ProductPatch{Name: &name})
	assert.True(t, errors.Is(err, repos.ErrNotFound))

	_, err = r.Get(ctx, "missing")
	assert.True(t, errors.Is(err, repos.ErrNotFound))
}

func TestProductDelete(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(store.NewMemoryStore())
	a, _ := r.Create(ctx, widget())
	b, _ := r.Create(ctx, domain.NewProduct{Name: "Gadget", SKU: "G-1"})

	ok, err := r.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	all, _ := r.List(ctx)
	assert.Len(t, all, 2)

	ok, err = r.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	all, _ = r.List(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)
}

func TestProductValidation(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(store.NewMemoryStore())

	_, err := r.Create(ctx, domain.NewProduct{Name: "No SKU"})
	var ve *validate.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "sku", ve.Field)

	p, err := r.Create(ctx, widget())
	require.NoError(t, err)
	_, err = r.Create(ctx, domain.NewProduct{Name: "Clone", SKU: "w-1"})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "sku", ve.Field)

	neg := -4
	_, err = r.Update(ctx, p.ID, domain.ProductPatch{Quantity: &neg})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "quantity", ve.Field)

	stored, _ := r.Get(ctx, p.ID)
	assert.Equal(t, 5, stored.Quantity, "rejected update must not persist")

	spaced, err := r.Create(ctx, domain.NewProduct{Name: "Bin", SKU: "  AB 12 "})
	require.NoError(t, err)
	assert.Equal(t, "AB 12", spaced.SKU)
	_, err = r.Create(ctx, domain.NewProduct{Name: "Bin clone", SKU: "ab 12"})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "sku", ve.Field)
}

func TestMalformedDataIsDecodeError(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Set(ctx, repos.ProductsKey, []byte("{not json")))

	_, err := repos.NewProductRepo(st).List(ctx)
	assert.True(t, errors.Is(err, repos.ErrDecode), "got %v", err)

	_, err = repos.NewProductRepo(st).Create(ctx, widget())
	assert.True(t, errors.Is(err, repos.ErrDecode), "got %v", err)
}

func TestUnavailableStore(t *testing.T) {
	ctx := context.Background()
	st := &flakyStore{MemoryStore: store.NewMemoryStore()}
	r := repos.NewProductRepo(st)
	p, err := r.Create(ctx, widget())
	require.NoError(t, err)

	st.failGet = true
	all, err := r.List(ctx)
	require.NoError(t, err, "reads treat an outage as empty")
	assert.Empty(t, all)

	_, err = r.Create(ctx, domain.NewProduct{Name: "Gadget", SKU: "G-1"})
	assert.True(t, errors.Is(err, store.ErrUnavailable), "mutations must not rewrite from an empty read")

	st.failGet, st.failSet = false, true
	_, err = r.Delete(ctx, p.ID)
	assert.True(t, errors.Is(err, store.ErrUnavailable))

	st.failSet = false
	all, err = r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "nothing lost")
}

func TestMissingStoreNeverFails(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(store.NopStore{})
	p, err := r.Create(ctx, widget())
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	ok, err := r.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrderCreate(t *testing.T) {
	ctx := context.Background()
	r := repos.NewOrderRepo(store.NewMemoryStore(), repos.WithClock(fixedClock()))

	o, err := r.Create(ctx, domain.NewOrder{
		Type:         domain.OrderPurchase,
		SupplierName: "Cable Masters",
		Items: []domain.OrderItem{
			{ProductID: "p1", ProductName: "USB-C Cable", Quantity: 3, Price: decimal.NewFromFloat(8.99)},
			{ProductID: "p2", ProductName: "Mouse", Quantity: 1, Price: decimal.NewFromFloat(19.99)},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.True(t, decimal.RequireFromString("26.97").Equal(o.Items[0].Subtotal))
	assert.True(t, decimal.RequireFromString("46.96").Equal(o.TotalAmount))
	assert.True(t, o.OrderDate.Equal(t0))
	assert.Nil(t, o.CompletedDate)
	assert.Equal(t, fmt.Sprintf("ORD-%d-1", t0.UnixMilli()), o.OrderNumber)

	stored, err := r.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, stored.OrderNumber)
	assert.True(t, o.TotalAmount.Equal(stored.TotalAmount))
}

func TestOrderNumbersUniqueWithinSameMillisecond(t *testing.T) {
	ctx := context.Background()
	r := repos.NewOrderRepo(store.NewMemoryStore(), repos.WithClock(fixedClock()))

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		o, err := r.Create(ctx, saleOrder("p1"))
		require.NoError(t, err)
		require.False(t, seen[o.OrderNumber], "duplicate %s", o.OrderNumber)
		seen[o.OrderNumber] = true
	}

	// counter survives a new repo over the same store
	st := store.NewMemoryStore()
	first, _ := repos.NewOrderRepo(st, repos.WithClock(fixedClock())).Create(ctx, saleOrder("p1"))
	second, _ := repos.NewOrderRepo(st, repos.WithClock(fixedClock())).Create(ctx, saleOrder("p1"))
	assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
}

func TestOrderValidation(t *testing.T) {
	ctx := context.Background()
	r := repos.NewOrderRepo(store.NewMemoryStore())
	var ve *validate.ValidationError

	_, err := r.Create(ctx, domain.NewOrder{Type: domain.OrderSale})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "items", ve.Field)

	bad := saleOrder("p1")
	bad.TotalAmount = decimal.NewFromInt(25)
	_, err = r.Create(ctx, bad)
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "totalAmount", ve.Field)

	bad = saleOrder("p1")
	bad.SupplierName = "Peripheral World"
	_, err = r.Create(ctx, bad)
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "supplierName", ve.Field)

	all, _ := r.List(ctx)
	assert.Empty(t, all)
}

func TestOrderStatusTransitions(t *testing.T) {
	ctx := context.Background()
	r := repos.NewOrderRepo(store.NewMemoryStore(), repos.WithClock(fixedClock()))
	o, err := r.Create(ctx, saleOrder("p1"))
	require.NoError(t, err)

	completed := domain.StatusCompleted
	done, err := r.Update(ctx, o.ID, domain.OrderPatch{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedDate)
	assert.True(t, done.CompletedDate.Equal(t0))
	assert.Equal(t, o.OrderNumber, done.OrderNumber)

	cancelled := domain.StatusCancelled
	undone, err := r.Update(ctx, o.ID, domain.OrderPatch{Status: &cancelled})
	require.NoError(t, err)
	assert.Nil(t, undone.CompletedDate)

	at := t0.Add(-time.Hour)
	explicit, err := r.Update(ctx, o.ID, domain.OrderPatch{Status: &completed, CompletedDate: &at})
	require.NoError(t, err)
	assert.True(t, explicit.CompletedDate.Equal(at))

	_, err = r.Update(ctx, "missing", domain.OrderPatch{Status: &completed})
	assert.True(t, errors.Is(err, repos.ErrNotFound))

	// a completion date alone cannot be put on an open order
	pending, err := r.Create(ctx, saleOrder("p2"))
	require.NoError(t, err)
	_, err = r.Update(ctx, pending.ID, domain.OrderPatch{CompletedDate: &at})
	var ve *validate.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "completedDate", ve.Field)
	stored, err := r.Get(ctx, pending.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CompletedDate)

	_, err = r.Create(ctx, domain.NewOrder{
		Type: domain.OrderSale, Status: domain.StatusProcessing, CompletedDate: &at,
		Items: saleOrder("p3").Items,
	})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "completedDate", ve.Field)
}

func TestOrderUpdateItemsRecomputesTotal(t *testing.T) {
	ctx := context.Background()
	r := repos.NewOrderRepo(store.NewMemoryStore())
	o, err := r.Create(ctx, saleOrder("p1"))
	require.NoError(t, err)

	items := []domain.OrderItem{
		{ProductID: "p1", ProductName: "Widget", Quantity: 4, Price: decimal.NewFromInt(10)},
	}
	got, err := r.Update(ctx, o.ID, domain.OrderPatch{Items: &items})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(got.Items[0].Subtotal))
	assert.True(t, decimal.NewFromInt(40).Equal(got.TotalAmount))

	wrong := decimal.NewFromInt(1)
	_, err = r.Update(ctx, o.ID, domain.OrderPatch{TotalAmount: &wrong})
	var ve *validate.ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestOrderDelete(t *testing.T) {
	ctx := context.Background()
	r := repos.NewOrderRepo(store.NewMemoryStore())
	o, _ := r.Create(ctx, saleOrder("p1"))

	ok, err := r.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.Delete(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	all, _ := r.List(ctx)
	assert.Empty(t, all)
}

func TestDeletingProductLeavesOrders(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	products := repos.NewProductRepo(st)
	orders := repos.NewOrderRepo(st)

	p, err := products.Create(ctx, widget())
	require.NoError(t, err)
	o, err := orders.Create(ctx, saleOrder(p.ID))
	require.NoError(t, err)

	ok, err := products.Delete(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := orders.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, p.ID, got.Items[0].ProductID)
	assert.Equal(t, "Widget", got.Items[0].ProductName)
}

func TestEnsureSeedDataIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	products := repos.NewProductRepo(st)
	orders := repos.NewOrderRepo(st)

	require.NoError(t, repos.EnsureSeedData(ctx, products, orders))
	p1, _ := products.List(ctx)
	o1, _ := orders.List(ctx)
	require.Len(t, p1, 4)
	require.Len(t, o1, 2)

	require.NoError(t, repos.EnsureSeedData(ctx, products, orders))
	p2, _ := products.List(ctx)
	o2, _ := orders.List(ctx)
	assert.Equal(t, p1, p2)
	assert.Equal(t, o1, o2)

	ids := map[string]bool{}
	for _, p := range p1 {
		ids[p.ID] = true
	}
	for _, o := range o1 {
		for _, it := range o.Items {
			assert.True(t, ids[it.ProductID], "seed order references seeded product")
			assert.True(t, it.Subtotal.Equal(it.LineTotal()))
		}
	}
	assert.Equal(t, domain.StatusCompleted, o1[0].Status)
	assert.NotNil(t, o1[0].CompletedDate)
	assert.Equal(t, "Acme Corporation", o1[0].CustomerName)
	assert.Equal(t, domain.StatusPending, o1[1].Status)
	assert.Equal(t, "Office Furniture Co", o1[1].SupplierName)
}

func TestEnsureSeedDataOnlyFillsEmptyCollections(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	products := repos.NewProductRepo(st)
	orders := repos.NewOrderRepo(st)

	_, err := products.Create(ctx, widget())
	require.NoError(t, err)
	require.NoError(t, repos.EnsureSeedData(ctx, products, orders))

	all, _ := products.List(ctx)
	assert.Len(t, all, 1, "non-empty products are left alone")
	ords, _ := orders.List(ctx)
	assert.Empty(t, ords, "sample orders need the sample products")
}
