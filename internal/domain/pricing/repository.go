package pricing

import (
	"context"

	"kitchenledger/internal/core/id"
)

// Repository persists pricings.
type Repository interface {
	Create(ctx context.Context, p *Pricing) error
	GetByID(ctx context.Context, pricingID id.ID) (*Pricing, error)
	List(ctx context.Context) ([]*Pricing, error)
	// ListForActiveProducts returns pricings whose product is not archived.
	ListForActiveProducts(ctx context.Context) ([]*Pricing, error)
	Update(ctx context.Context, p *Pricing) error
	Delete(ctx context.Context, pricingID id.ID) error
}
