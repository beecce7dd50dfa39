package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/domain/product"
	"kitchenledger/internal/infrastructure/storage/postgres"
)

const productTable = "products"

// ProductRepo implements product.Repository. Ingredients are stored as JSONB.
type ProductRepo struct {
	*BaseCatalogRepo[product.Product]
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	cols := postgres.ExtractDBColumns[product.Product]()
	base := NewBaseCatalogRepo[product.Product](txm, "product", productTable, cols, cols)
	base.orderBy = "name ASC"
	return &ProductRepo{BaseCatalogRepo: base}
}

// ListActive returns non-archived products by name.
func (r *ProductRepo) ListActive(ctx context.Context, search string) ([]*product.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"lifecycle": product.LifecycleActive}).
		OrderBy(r.orderBy)
	if search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + search + "%"})
	}
	return r.selectAll(ctx, q)
}

// Archive soft-deletes a product. Archiving twice is NotFound.
func (r *ProductRepo) Archive(ctx context.Context, productID id.ID) error {
	sql, args, err := r.Builder().
		Update(productTable).
		Set("lifecycle", product.LifecycleArchived).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": productID}).
		Where(squirrel.Eq{"lifecycle": product.LifecycleActive}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build archive: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("archive product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}
