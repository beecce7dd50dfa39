package catalog_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/domain/fixedcosts"
	"kitchenledger/internal/infrastructure/storage/postgres"
)

// FixedCostsChannel is the NOTIFY channel raised on every upsert.
const FixedCostsChannel = "fixed_costs_changed"

// FixedCostsRepo implements fixedcosts.Repository over a single-row table.
type FixedCostsRepo struct {
	txm *postgres.TxManager
}

var _ fixedcosts.Repository = (*FixedCostsRepo)(nil)

// NewFixedCostsRepo creates a new fixed costs repository.
func NewFixedCostsRepo(txm *postgres.TxManager) *FixedCostsRepo {
	return &FixedCostsRepo{txm: txm}
}

// Get returns the singleton or NotFound.
func (r *FixedCostsRepo) Get(ctx context.Context) (*fixedcosts.FixedCosts, error) {
	const sql = `
		SELECT rent, taxes, utilities, marketing, accounting, expected_monthly_sales, updated_at
		FROM fixed_costs
		WHERE id = 1`

	var fc fixedcosts.FixedCosts
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &fc, sql); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("fixed costs", "singleton")
		}
		return nil, fmt.Errorf("get fixed costs: %w", err)
	}
	return &fc, nil
}

// Upsert creates or replaces the singleton.
func (r *FixedCostsRepo) Upsert(ctx context.Context, f *fixedcosts.FixedCosts) error {
	const sql = `
		INSERT INTO fixed_costs (id, rent, taxes, utilities, marketing, accounting, expected_monthly_sales, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			rent = EXCLUDED.rent,
			taxes = EXCLUDED.taxes,
			utilities = EXCLUDED.utilities,
			marketing = EXCLUDED.marketing,
			accounting = EXCLUDED.accounting,
			expected_monthly_sales = EXCLUDED.expected_monthly_sales,
			updated_at = EXCLUDED.updated_at`

	_, err := r.txm.GetQuerier(ctx).Exec(ctx, sql,
		f.Rent, f.Taxes, f.Utilities, f.Marketing, f.Accounting, f.ExpectedMonthlySales, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert fixed costs: %w", err)
	}

	// Delivered on commit; other instances drop their cached copy.
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, `SELECT pg_notify($1, '')`, FixedCostsChannel); err != nil {
		return fmt.Errorf("notify fixed costs change: %w", err)
	}
	return nil
}
