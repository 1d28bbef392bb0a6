// Package store holds the key-value backends the repositories persist their
// collections into. A backend only needs whole-value get and set by key; there
// are no transactions and no partial writes.
package store

import (
	"context"
	"errors"
	"fmt"

	"stockroom/internal/config"
)

// ErrUnavailable marks a backend that could not be reached. Backends wrap their
// I/O failures with it so callers can tell an outage from a programming error.
var ErrUnavailable = errors.New("store unavailable")

type Store interface {
	// Get returns the value under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

func unavailable(op, key string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, op, key, err)
}

// Open builds the backend selected by cfg.Store. The returned close func is never nil.
func Open(cfg config.Config) (Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case "", "sqlite":
		s, err := OpenSQL(cfg.DBDSN)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case "redis":
		s, err := OpenRedis(RedisOptions{URL: cfg.RedisURL, DB: cfg.RedisDB, Namespace: cfg.RedisNamespace})
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case "memory":
		return NewMemoryStore(), noop, nil
	case "none":
		return NopStore{}, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown store backend %q", cfg.Store)
}
