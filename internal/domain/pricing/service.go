package pricing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/tx"
	"kitchenledger/internal/domain/fixedcosts"
	"kitchenledger/internal/domain/product"
	"kitchenledger/pkg/logger"
)

// ProductReader resolves products, archived ones included.
type ProductReader interface {
	GetByID(ctx context.Context, productID id.ID) (*product.Product, error)
}

// FixedCostsLoader returns the current overhead record.
type FixedCostsLoader interface {
	Load(ctx context.Context) (*fixedcosts.FixedCosts, error)
}

// CreateRequest describes a new pricing. Yields defaults to the product's yield.
type CreateRequest struct {
	ProductID       id.ID
	ProfitMarginPct decimal.Decimal
	PlatformFeePct  decimal.Decimal
	Yields          *int
}

// UpdateRequest carries optional parameter changes. Zero values are honoured.
type UpdateRequest struct {
	ProfitMarginPct *decimal.Decimal
	PlatformFeePct  *decimal.Decimal
	Yields          *int
}

// Service stores pricings and keeps their derived values current.
type Service struct {
	repo       Repository
	products   ProductReader
	calculator *Calculator
	fixedCosts FixedCostsLoader
	txManager  tx.Manager
}

// NewService creates a new pricing service.
func NewService(
	repo Repository,
	products ProductReader,
	calculator *Calculator,
	fixedCosts FixedCostsLoader,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:       repo,
		products:   products,
		calculator: calculator,
		fixedCosts: fixedCosts,
		txManager:  txManager,
	}
}

// Create prices a product. Parameters are checked before anything is read or written.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Pricing, error) {
	if err := checkFee(req.PlatformFeePct); err != nil {
		return nil, err
	}

	p, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, apperror.NewNotFound("product", req.ProductID.String())
	}

	yields := p.Yield
	if req.Yields != nil {
		yields = *req.Yields
	}
	if err := validateInputs(req.ProfitMarginPct, req.PlatformFeePct, yields); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	pr := &Pricing{
		ID:              id.New(),
		ProductID:       p.ID,
		ProductName:     p.Name,
		ProfitMarginPct: req.ProfitMarginPct,
		PlatformFeePct:  req.PlatformFeePct,
		Yields:          yields,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.compute(ctx, pr, p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, pr); err != nil {
		return nil, err
	}

	logger.Info(ctx, "pricing created",
		"pricing_id", pr.ID,
		"product_id", pr.ProductID,
		"selling_price", pr.SellingPrice.String())
	return pr, nil
}

// Update changes parameters and recalculates.
func (s *Service) Update(ctx context.Context, pricingID id.ID, req UpdateRequest) (*Pricing, error) {
	if req.PlatformFeePct != nil {
		if err := checkFee(*req.PlatformFeePct); err != nil {
			return nil, err
		}
	}

	var pr *Pricing
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, pricingID)
		if err != nil {
			return err
		}
		if req.ProfitMarginPct != nil {
			current.ProfitMarginPct = *req.ProfitMarginPct
		}
		if req.PlatformFeePct != nil {
			current.PlatformFeePct = *req.PlatformFeePct
		}
		if req.Yields != nil {
			current.Yields = *req.Yields
		}
		if err := validateInputs(current.ProfitMarginPct, current.PlatformFeePct, current.Yields); err != nil {
			return err
		}
		if err := s.recompute(ctx, current); err != nil {
			return err
		}
		pr = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pr, nil
}

// Recalculate refreshes the derived values from current costs.
// Running it twice with unchanged inputs stores the same price.
func (s *Service) Recalculate(ctx context.Context, pricingID id.ID) (*Pricing, error) {
	var pr *Pricing
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, pricingID)
		if err != nil {
			return err
		}
		if err := s.recompute(ctx, current); err != nil {
			return err
		}
		pr = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pr, nil
}

// RecalculateAll reprices every pricing of an active product.
// It stops at the first failure; pricings already updated stay updated.
func (s *Service) RecalculateAll(ctx context.Context) (int, error) {
	all, err := s.repo.ListForActiveProducts(ctx)
	if err != nil {
		return 0, err
	}
	fc, err := s.fixedCosts.Load(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, pr := range all {
		p, err := s.products.GetByID(ctx, pr.ProductID)
		if err != nil {
			return updated, err
		}
		if err := s.computeWith(ctx, pr, p, fc); err != nil {
			return updated, err
		}
		pr.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, pr); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// Get returns a pricing by id.
func (s *Service) Get(ctx context.Context, pricingID id.ID) (*Pricing, error) {
	return s.repo.GetByID(ctx, pricingID)
}

// List returns all pricings with their product names.
func (s *Service) List(ctx context.Context) ([]*Pricing, error) {
	return s.repo.List(ctx)
}

// Delete removes a pricing. Orders keep their own price snapshot.
func (s *Service) Delete(ctx context.Context, pricingID id.ID) error {
	if err := s.repo.Delete(ctx, pricingID); err != nil {
		return err
	}
	logger.Info(ctx, "pricing deleted", "pricing_id", pricingID)
	return nil
}

func (s *Service) recompute(ctx context.Context, pr *Pricing) error {
	p, err := s.products.GetByID(ctx, pr.ProductID)
	if err != nil {
		return err
	}
	if err := s.compute(ctx, pr, p); err != nil {
		return err
	}
	pr.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, pr)
}

func (s *Service) compute(ctx context.Context, pr *Pricing, p *product.Product) error {
	fc, err := s.fixedCosts.Load(ctx)
	if err != nil {
		return err
	}
	return s.computeWith(ctx, pr, p, fc)
}

func (s *Service) computeWith(ctx context.Context, pr *Pricing, p *product.Product, fc *fixedcosts.FixedCosts) error {
	cost, err := s.calculator.ProductionCost(ctx, p, pr.Yields)
	if err != nil {
		return err
	}
	price, err := SellingPrice(cost, pr.ProfitMarginPct, pr.PlatformFeePct, fc)
	if err != nil {
		return err
	}
	pr.ProductName = p.Name
	pr.ProductionCost = cost
	pr.SellingPrice = price
	return nil
}
