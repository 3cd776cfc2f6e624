package repositories

import (
	"context"
)

// UnitOfWork defines the interface for atomic operations
type UnitOfWork interface {
	// Do executes the given function within a transaction scope
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	// WithLock marks the transaction context so reads take row locks,
	// serializing read-modify-write on the same purchase.
	WithLock(ctx context.Context) context.Context
}
