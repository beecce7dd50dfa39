package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/domain/order"
	"kitchenledger/internal/infrastructure/storage/postgres"
)

const orderTable = "orders"

// OrderRepo implements order.Repository. Snapshots live in JSONB columns.
type OrderRepo struct {
	*BaseDocumentRepo[order.Order]
}

var _ order.Repository = (*OrderRepo)(nil)

// NewOrderRepo creates a new order repository.
func NewOrderRepo(txm *postgres.TxManager) *OrderRepo {
	return &OrderRepo{BaseDocumentRepo: NewBaseDocumentRepo[order.Order](txm, "order", orderTable)}
}

// List returns orders ordered by board position, then date.
func (r *OrderRepo) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	q := r.baseSelect().OrderBy("position ASC", "date ASC")

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.To})
	}

	return r.selectAll(ctx, q)
}

// UpdateStatus moves the order only while its status is still from.
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID id.ID, from, to order.Status) (bool, error) {
	sql, args, err := r.Builder().
		Update(orderTable).
		Set("status", to).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": orderID, "status": from}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build status update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// UpdatePosition moves the order on the board.
func (r *OrderRepo) UpdatePosition(ctx context.Context, orderID id.ID, position int) error {
	sql, args, err := r.Builder().
		Update(orderTable).
		Set("position", position).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build position update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order position: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("order", orderID.String())
	}
	return nil
}
