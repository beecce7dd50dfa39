package product

import (
	"context"

	"kitchenledger/internal/core/id"
)

// Repository persists products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	// GetByID returns the product whatever its lifecycle.
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	ListActive(ctx context.Context, search string) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	Archive(ctx context.Context, productID id.ID) error
}
