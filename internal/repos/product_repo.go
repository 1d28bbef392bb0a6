package repos

import (
	"context"
	"strings"
	"sync"

	"stockroom/internal/domain"
	"stockroom/internal/store"
	"stockroom/internal/validate"
)

// ProductRepo owns the product collection. Every mutation rewrites the whole
// list; mu only serialises writers within this process.
type ProductRepo struct {
	base
	mu    sync.Mutex
	items collection[domain.Product]
}

func NewProductRepo(st store.Store, opts ...Option) *ProductRepo {
	return &ProductRepo{base: newBase(opts), items: collection[domain.Product]{st: st, key: ProductsKey}}
}

// List returns all products in insertion order. A missing or unreachable store
// yields an empty list.
func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	return r.items.read(ctx, true)
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	all, err := r.List(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	if i := indexProduct(all, id); i >= 0 {
		return all[i], nil
	}
	return domain.Product{}, ErrNotFound
}

func (r *ProductRepo) Create(ctx context.Context, in domain.NewProduct) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.items.read(ctx, false)
	if err != nil {
		return domain.Product{}, err
	}
	now := r.stamp()
	p := domain.Product{
		ID:           r.newID(),
		Name:         in.Name,
		SKU:          in.SKU,
		Category:     in.Category,
		Quantity:     in.Quantity,
		Price:        in.Price,
		ReorderLevel: in.ReorderLevel,
		Supplier:     in.Supplier,
		Description:  in.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := validate.Product(&p); err != nil {
		return domain.Product{}, err
	}
	if err := checkSKU(all, p); err != nil {
		return domain.Product{}, err
	}
	if err := r.items.write(ctx, append(all, p)); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// Update overlays the non-nil fields of patch onto the product with id.
func (r *ProductRepo) Update(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.items.read(ctx, false)
	if err != nil {
		return domain.Product{}, err
	}
	i := indexProduct(all, id)
	if i < 0 {
		return domain.Product{}, ErrNotFound
	}
	p := all[i]
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.ReorderLevel != nil {
		p.ReorderLevel = *patch.ReorderLevel
	}
	if patch.Supplier != nil {
		p.Supplier = *patch.Supplier
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	p.UpdatedAt = r.later(p.UpdatedAt)

	if err := validate.Product(&p); err != nil {
		return domain.Product{}, err
	}
	if err := checkSKU(all, p); err != nil {
		return domain.Product{}, err
	}
	all[i] = p
	if err := r.items.write(ctx, all); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// Delete reports whether a product was removed. Orders referencing it are left alone.
func (r *ProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.items.read(ctx, false)
	if err != nil {
		return false, err
	}
	i := indexProduct(all, id)
	if i < 0 {
		return false, nil
	}
	if err := r.items.write(ctx, append(all[:i], all[i+1:]...)); err != nil {
		return false, err
	}
	return true, nil
}

func indexProduct(all []domain.Product, id string) int {
	for i := range all {
		if all[i].ID == id {
			return i
		}
	}
	return -1
}

func checkSKU(all []domain.Product, p domain.Product) error {
	for _, other := range all {
		if other.ID != p.ID && strings.EqualFold(other.SKU, p.SKU) {
			return &validate.ValidationError{Field: "sku", Reason: "already used by " + other.Name}
		}
	}
	return nil
}
