package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	applog "stockroom/internal/log"
	"stockroom/internal/store"
)

const (
	ProductsKey = "inventory_products"
	OrdersKey   = "inventory_orders"
	OrderSeqKey = "inventory_order_seq"
)

var (
	// ErrNotFound is returned by Get and Update when no record has the id.
	ErrNotFound = errors.New("not found")
	// ErrDecode means the stored value under a key is not a valid collection.
	ErrDecode = errors.New("stored data is malformed")
)

// collection reads and writes one entity list stored whole under key.
type collection[T any] struct {
	st  store.Store
	key string
}

// read returns the stored list. An absent key is an empty list. When lenient is
// set an unavailable store is also an empty list; mutations read strictly so a
// flaky backend never turns into a rewrite of an empty collection.
func (c collection[T]) read(ctx context.Context, lenient bool) ([]T, error) {
	b, ok, err := c.st.Get(ctx, c.key)
	if err != nil {
		if lenient && errors.Is(err, store.ErrUnavailable) {
			applog.Warn(nil, "store.read.unavailable", err, map[string]any{"key": c.key})
			return []T{}, nil
		}
		return nil, err
	}
	if !ok || len(b) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, c.key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (c collection[T]) write(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.st.Set(ctx, c.key, b)
}
