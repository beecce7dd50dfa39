package customer

import (
	"context"
	"time"

	"kitchenledger/internal/core/id"
	"kitchenledger/internal/domain"
	"kitchenledger/pkg/logger"
)

// Request is the create/update payload.
type Request struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Service implements customer CRUD.
type Service struct {
	repo Repository
}

// NewService creates a new customer service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req Request) (*Customer, error) {
	now := time.Now().UTC()
	c := &Customer{
		ID:        id.New(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.Info(ctx, "customer created", "customer_id", c.ID)
	return c, nil
}

func (s *Service) Get(ctx context.Context, customerID id.ID) (*Customer, error) {
	return s.repo.GetByID(ctx, customerID)
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Customer], error) {
	return s.repo.List(ctx, filter.Normalize())
}

func (s *Service) Update(ctx context.Context, customerID id.ID, req Request) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	c.Name, c.Email, c.Phone, c.Address = req.Name, req.Email, req.Phone, req.Address
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, customerID id.ID) error {
	if err := s.repo.Delete(ctx, customerID); err != nil {
		return err
	}
	logger.Info(ctx, "customer deleted", "customer_id", customerID)
	return nil
}
