package fixedcosts

import "context"

// Repository persists the singleton record.
type Repository interface {
	// Get returns NotFound until the record is first saved.
	Get(ctx context.Context) (*FixedCosts, error)
	Upsert(ctx context.Context, f *FixedCosts) error
}

// Cache is a read-through cache in front of Repository.
type Cache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context) (f *FixedCosts, ok bool, err error)
	Set(ctx context.Context, f *FixedCosts) error
	Invalidate(ctx context.Context) error
}

// Recalculator refreshes derived prices after overhead changes.
type Recalculator interface {
	RecalculateAll(ctx context.Context) (int, error)
}
