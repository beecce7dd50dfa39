package order

import (
	"context"

	"kitchenledger/internal/core/id"
)

// Repository persists orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)
	// GetForUpdate loads and row-locks the order; call inside a transaction.
	GetForUpdate(ctx context.Context, orderID id.ID) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
	// UpdateStatus moves the order only if its status is still from.
	// Returns false when no row matched.
	UpdateStatus(ctx context.Context, orderID id.ID, from, to Status) (bool, error)
	UpdatePosition(ctx context.Context, orderID id.ID, position int) error
}
