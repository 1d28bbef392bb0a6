package repos

import (
	"time"

	"github.com/google/uuid"
)

type Option func(*base)

// WithClock replaces time.Now for timestamps and order numbers.
func WithClock(now func() time.Time) Option { return func(b *base) { b.now = now } }

// WithIDs replaces the UUID generator for record ids.
func WithIDs(next func() string) Option { return func(b *base) { b.newID = next } }

type base struct {
	now   func() time.Time
	newID func() string
}

func newBase(opts []Option) base {
	b := base{now: time.Now, newID: uuid.NewString}
	for _, o := range opts {
		o(&b)
	}
	return b
}

func (b base) stamp() time.Time { return b.now().UTC() }

// later returns the current time, or a nanosecond past prev when the clock has
// not moved, so UpdatedAt always strictly increases.
func (b base) later(prev time.Time) time.Time {
	t := b.stamp()
	if !t.After(prev) {
		t = prev.Add(time.Nanosecond)
	}
	return t
}
