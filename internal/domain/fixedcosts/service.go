package fixedcosts

import (
	"context"
	"time"

	"kitchenledger/pkg/logger"
)

// Service owns the load/update lifecycle of the fixed-costs record.
type Service struct {
	repo         Repository
	cache        Cache
	recalculator Recalculator
}

// NewService creates a new fixed-costs service. cache may be nil.
func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// SetRecalculator wires the pricing service, which itself depends on Load.
func (s *Service) SetRecalculator(r Recalculator) {
	s.recalculator = r
}

// Load returns the current record, NotFound if never configured.
func (s *Service) Load(ctx context.Context) (*FixedCosts, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			logger.Warn(ctx, "fixed costs cache read failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}

	f, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, f); err != nil {
			logger.Warn(ctx, "fixed costs cache write failed", "error", err)
		}
	}
	return f, nil
}

// Update validates and saves the record, then reprices every active product.
// Repricing failures are logged; the saved record stands.
func (s *Service) Update(ctx context.Context, f *FixedCosts) (*FixedCosts, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f.UpdatedAt = time.Now().UTC()

	if err := s.repo.Upsert(ctx, f); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, f); err != nil {
			logger.Warn(ctx, "fixed costs cache refresh failed", "error", err)
			_ = s.cache.Invalidate(ctx)
		}
	}

	logger.Info(ctx, "fixed costs updated",
		"total", f.Total().String(),
		"expected_monthly_sales", f.ExpectedMonthlySales.String())

	if s.recalculator != nil {
		n, err := s.recalculator.RecalculateAll(ctx)
		if err != nil {
			logger.Error(ctx, "repricing after fixed costs update failed", "error", err)
		} else {
			logger.Info(ctx, "prices recalculated", "count", n)
		}
	}
	return f, nil
}
