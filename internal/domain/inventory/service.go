package inventory

import (
	"context"
	"time"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/tx"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain"
	"kitchenledger/internal/domain/input"
	"kitchenledger/pkg/logger"
)

// InputReader resolves the input an item belongs to.
type InputReader interface {
	GetByID(ctx context.Context, inputID id.ID) (*input.Input, error)
}

// CreateRequest describes a new stock record.
type CreateRequest struct {
	InputID     id.ID
	Quantity    types.Quantity
	Unit        Unit
	CostPerUnit string
}

// UpdateRequest carries optional field changes (stock intake, cost revision).
type UpdateRequest struct {
	Quantity    *types.Quantity
	Unit        *Unit
	CostPerUnit *string
}

// Service implements stock record CRUD.
type Service struct {
	repo      Repository
	inputs    InputReader
	txManager tx.Manager
}

// NewService creates a new inventory service.
func NewService(repo Repository, inputs InputReader, txManager tx.Manager) *Service {
	return &Service{repo: repo, inputs: inputs, txManager: txManager}
}

// Create adds the stock record of an input. Each input has at most one.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	now := time.Now().UTC()
	item := &Item{
		ID:          id.New(),
		InputID:     req.InputID,
		Date:        now,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		CostPerUnit: req.CostPerUnit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		in, err := s.inputs.GetByID(ctx, req.InputID)
		if err != nil {
			return err
		}
		item.InputName = in.Name

		exists, err := s.repo.ExistsForInput(ctx, req.InputID)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewConflict("inventory already exists for this input").
				WithDetail("inputId", req.InputID.String())
		}
		return s.repo.Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "inventory created",
		"inventory_id", item.ID,
		"input_id", item.InputID,
		"quantity", item.Quantity.String())
	return item, nil
}

// Get returns a stock record by id.
func (s *Service) Get(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

// List returns a page of stock records, newest first.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Item], error) {
	return s.repo.List(ctx, filter.Normalize())
}

// LowStock lists records that need restocking.
func (s *Service) LowStock(ctx context.Context) ([]*LowStock, error) {
	return s.repo.ListBelowLimit(ctx)
}

// Update applies the non-nil fields of req under a row lock so it cannot
// interleave with an order deduction.
func (s *Service) Update(ctx context.Context, itemID id.ID, req UpdateRequest) (*Item, error) {
	var item *Item
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.repo.LockForUpdate(ctx, []id.ID{itemID})
		if err != nil {
			return err
		}
		found, ok := locked[itemID]
		if !ok {
			return apperror.NewNotFound("inventory", itemID.String())
		}
		if req.Quantity != nil {
			found.Quantity = *req.Quantity
		}
		if req.Unit != nil {
			found.Unit = *req.Unit
		}
		if req.CostPerUnit != nil {
			found.CostPerUnit = *req.CostPerUnit
		}
		if err := found.Validate(); err != nil {
			return err
		}
		found.UpdatedAt = time.Now().UTC()
		item = found
		return s.repo.Update(ctx, found)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a stock record.
func (s *Service) Delete(ctx context.Context, itemID id.ID) error {
	if err := s.repo.Delete(ctx, itemID); err != nil {
		return err
	}
	logger.Info(ctx, "inventory deleted", "inventory_id", itemID)
	return nil
}
