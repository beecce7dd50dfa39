package customer

import (
	"context"

	"kitchenledger/internal/core/id"
	"kitchenledger/internal/domain"
)

// Repository persists customers. Create and Update return Duplicate on an
// email already in use; Delete returns Conflict while orders reference the customer.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, customerID id.ID) (*Customer, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Customer], error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, customerID id.ID) error
}
