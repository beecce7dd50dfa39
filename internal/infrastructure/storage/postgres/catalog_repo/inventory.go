package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain/inventory"
	"kitchenledger/internal/infrastructure/storage/postgres"
)

const inventoryTable = "inventory"

// InventoryRepo implements inventory.Repository, including the stock ledger.
type InventoryRepo struct {
	*BaseCatalogRepo[inventory.Item]
}

var _ inventory.Repository = (*InventoryRepo)(nil)

// NewInventoryRepo creates a new inventory repository.
func NewInventoryRepo(txm *postgres.TxManager) *InventoryRepo {
	writeCols := postgres.ColumnsExcept(postgres.ExtractDBColumns[inventory.Item](), "input_name")

	selectCols := make([]string, 0, len(writeCols)+1)
	for _, c := range writeCols {
		selectCols = append(selectCols, "i."+c)
	}
	selectCols = append(selectCols, "n.name AS input_name")

	base := NewBaseCatalogRepo[inventory.Item](txm, "inventory", inventoryTable, selectCols, writeCols)
	base.from = inventoryTable + " i JOIN inputs n ON n.id = i.input_id"
	base.idCol = "i.id"
	base.searchCols = []string{"n.name"}
	base.orderBy = "i.created_at DESC"
	base.uniqueFields["inventory_input_key"] = "input_id"

	return &InventoryRepo{BaseCatalogRepo: base}
}

// ExistsForInput reports whether the input already has a stock record.
func (r *InventoryRepo) ExistsForInput(ctx context.Context, inputID id.ID) (bool, error) {
	sql, args, err := r.Builder().
		Select("1").
		Prefix("SELECT EXISTS (").
		From(inventoryTable).
		Where(squirrel.Eq{"input_id": inputID}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists bool
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists for input: %w", err)
	}
	return exists, nil
}

// LockForUpdate loads and row-locks the items in ascending id order.
func (r *InventoryRepo) LockForUpdate(ctx context.Context, itemIDs []id.ID) (map[id.ID]*inventory.Item, error) {
	out := make(map[id.ID]*inventory.Item, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	items, err := r.selectAll(ctx, r.baseSelect().
		Where(squirrel.Eq{"i.id": itemIDs}).
		OrderBy("i.id").
		Suffix("FOR UPDATE OF i"))
	if err != nil {
		return nil, fmt.Errorf("lock inventory: %w", err)
	}

	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

// Deduct decrements stock only when enough is on hand.
func (r *InventoryRepo) Deduct(ctx context.Context, itemID id.ID, amount types.Quantity) (bool, error) {
	if err := checkMovement(amount); err != nil {
		return false, err
	}
	sql, args, err := r.Builder().
		Update(inventoryTable).
		Set("quantity", squirrel.Expr("quantity - ?", amount.Int64Scaled())).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": itemID}).
		Where(squirrel.GtOrEq{"quantity": amount.Int64Scaled()}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build deduct: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("deduct stock: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// Restore increments stock.
func (r *InventoryRepo) Restore(ctx context.Context, itemID id.ID, amount types.Quantity) error {
	if err := checkMovement(amount); err != nil {
		return err
	}
	sql, args, err := r.Builder().
		Update(inventoryTable).
		Set("quantity", squirrel.Expr("quantity + ?", amount.Int64Scaled())).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build restore: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory", itemID.String())
	}
	return nil
}

// ListBelowLimit returns items at or below their input's stock limit.
// A zero limit means the input is not tracked.
func (r *InventoryRepo) ListBelowLimit(ctx context.Context) ([]*inventory.LowStock, error) {
	sql, args, err := r.baseSelect().
		Column("n.stock_limit").
		Where("n.stock_limit > 0").
		Where("i.quantity <= n.stock_limit").
		OrderBy("i.quantity").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]*inventory.LowStock, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return items, nil
}

func checkMovement(amount types.Quantity) error {
	if !amount.IsPositive() {
		return apperror.NewInvalidValue("stock movement must be positive").
			WithDetail("amount", amount.String())
	}
	return nil
}
