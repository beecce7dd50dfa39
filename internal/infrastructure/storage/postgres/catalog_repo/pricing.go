package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"kitchenledger/internal/domain/pricing"
	"kitchenledger/internal/domain/product"
	"kitchenledger/internal/infrastructure/storage/postgres"
)

const pricingTable = "pricings"

// PricingRepo implements pricing.Repository. Reads join the product name.
type PricingRepo struct {
	*BaseCatalogRepo[pricing.Pricing]
}

var _ pricing.Repository = (*PricingRepo)(nil)

// NewPricingRepo creates a new pricing repository.
func NewPricingRepo(txm *postgres.TxManager) *PricingRepo {
	writeCols := postgres.ColumnsExcept(postgres.ExtractDBColumns[pricing.Pricing](), "product_name")

	selectCols := make([]string, 0, len(writeCols)+1)
	for _, c := range writeCols {
		selectCols = append(selectCols, "pr."+c)
	}
	selectCols = append(selectCols, "p.name AS product_name")

	base := NewBaseCatalogRepo[pricing.Pricing](txm, "pricing", pricingTable, selectCols, writeCols)
	base.from = pricingTable + " pr JOIN products p ON p.id = pr.product_id"
	base.idCol = "pr.id"
	base.orderBy = "p.name ASC"
	return &PricingRepo{BaseCatalogRepo: base}
}

// List returns every pricing, archived products included.
func (r *PricingRepo) List(ctx context.Context) ([]*pricing.Pricing, error) {
	return r.selectAll(ctx, r.baseSelect().OrderBy(r.orderBy))
}

// ListForActiveProducts returns pricings whose product is not archived.
func (r *PricingRepo) ListForActiveProducts(ctx context.Context) ([]*pricing.Pricing, error) {
	return r.selectAll(ctx, r.baseSelect().
		Where(squirrel.Eq{"p.lifecycle": product.LifecycleActive}).
		OrderBy(r.orderBy))
}
