package input

import (
	"context"
	"strings"
	"time"

	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain"
	"kitchenledger/pkg/logger"
)

// UpdateRequest carries optional field changes.
type UpdateRequest struct {
	Name       *string
	StockLimit *types.Quantity
}

// Service implements input CRUD.
type Service struct {
	repo Repository
}

// NewService creates a new input service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new input.
func (s *Service) Create(ctx context.Context, name string, stockLimit types.Quantity) (*Input, error) {
	in := NewInput(name, stockLimit)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, in); err != nil {
		return nil, err
	}
	logger.Info(ctx, "input created", "input_id", in.ID, "name", in.Name)
	return in, nil
}

// Get returns an input by id.
func (s *Service) Get(ctx context.Context, inputID id.ID) (*Input, error) {
	return s.repo.GetByID(ctx, inputID)
}

// List returns a page of inputs ordered by name.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Input], error) {
	return s.repo.List(ctx, filter.Normalize())
}

// Update applies the non-nil fields of req.
func (s *Service) Update(ctx context.Context, inputID id.ID, req UpdateRequest) (*Input, error) {
	in, err := s.repo.GetByID(ctx, inputID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		in.Name = strings.TrimSpace(*req.Name)
	}
	if req.StockLimit != nil {
		in.StockLimit = *req.StockLimit
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

// Delete removes an input.
func (s *Service) Delete(ctx context.Context, inputID id.ID) error {
	if err := s.repo.Delete(ctx, inputID); err != nil {
		return err
	}
	logger.Info(ctx, "input deleted", "input_id", inputID)
	return nil
}
