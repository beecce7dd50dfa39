package inventory

import (
	"context"

	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain"
)

// Repository persists stock records.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)
	ExistsForInput(ctx context.Context, inputID id.ID) (bool, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Item], error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, itemID id.ID) error

	// ListBelowLimit returns records whose quantity is at or below the
	// input's positive stock limit, lowest quantity first.
	ListBelowLimit(ctx context.Context) ([]*LowStock, error)

	Ledger
}

// Ledger is the stock-moving part of the repository.
// All methods must run inside a transaction.
type Ledger interface {
	// LockForUpdate loads and row-locks the items in ascending id order.
	// Missing ids are absent from the result.
	LockForUpdate(ctx context.Context, itemIDs []id.ID) (map[id.ID]*Item, error)

	// Deduct decrements stock only if enough is on hand.
	// Returns false when the conditional decrement matched no row.
	Deduct(ctx context.Context, itemID id.ID, amount types.Quantity) (bool, error)

	// Restore increments stock.
	Restore(ctx context.Context, itemID id.ID, amount types.Quantity) error
}
