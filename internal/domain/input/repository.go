package input

import (
	"context"

	"kitchenledger/internal/core/id"
	"kitchenledger/internal/domain"
)

// Repository persists inputs.
type Repository interface {
	Create(ctx context.Context, in *Input) error
	GetByID(ctx context.Context, inputID id.ID) (*Input, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Input], error)
	Update(ctx context.Context, in *Input) error
	// Delete fails with Conflict while an inventory record references the input.
	Delete(ctx context.Context, inputID id.ID) error
}
