// Package catalog_repo provides PostgreSQL implementations for the master-data
// repositories: inputs, inventory, products, pricings, customers and fixed costs.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/domain"
	"kitchenledger/internal/infrastructure/storage/postgres"
)

// BaseCatalogRepo provides common CRUD operations for catalog entities.
// Embed this in specific catalog repositories.
type BaseCatalogRepo[T any] struct {
	txm        *postgres.TxManager
	entityName string
	tableName  string
	from       string
	idCol      string
	selectCols []string
	writeCols  []string
	searchCols []string
	orderBy    string

	// uniqueFields maps a unique constraint name to the field it guards.
	uniqueFields map[string]string
}

// NewBaseCatalogRepo creates a new base catalog repository. writeCols are the
// columns owned by the table; selectCols may add joined or computed columns.
func NewBaseCatalogRepo[T any](
	txm *postgres.TxManager,
	entityName, tableName string,
	selectCols, writeCols []string,
) *BaseCatalogRepo[T] {
	return &BaseCatalogRepo[T]{
		txm:          txm,
		entityName:   entityName,
		tableName:    tableName,
		from:         tableName,
		idCol:        "id",
		selectCols:   selectCols,
		writeCols:    writeCols,
		searchCols:   []string{"name"},
		orderBy:      "created_at DESC",
		uniqueFields: map[string]string{},
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseCatalogRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// baseSelect creates a SELECT builder over the table.
func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.from)
}

// translateWriteError turns constraint failures into domain errors.
func (r *BaseCatalogRepo[T]) translateWriteError(err error, data map[string]any) error {
	if constraint, ok := postgres.IsUniqueViolation(err); ok {
		field := r.uniqueFields[constraint]
		if field == "" {
			field = constraint
		}
		return apperror.NewDuplicate(r.entityName, field, fmt.Sprint(data[field])).WithCause(err)
	}
	if constraint, ok := postgres.IsCheckViolation(err); ok {
		return apperror.NewInvalidInput(r.entityName + " violates " + constraint).WithCause(err)
	}
	if postgres.IsForeignKeyViolation(err) {
		return apperror.NewNotFound("referenced record", r.entityName).WithCause(err)
	}
	return nil
}

// Create inserts a new entity using its "db" tags.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, entity *T) error {
	data := postgres.PickColumns(postgres.StructToMap(entity), r.writeCols)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	sql, args, err := r.Builder().
		Insert(r.tableName).
		SetMap(data).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		if domainErr := r.translateWriteError(err, data); domainErr != nil {
			return domainErr
		}
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}

	return nil
}

// Update rewrites the mutable columns of an existing entity.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, entity *T) error {
	data := postgres.StructToMap(entity)
	entityID, ok := data["id"]
	if !ok {
		return fmt.Errorf("entity has no 'id' field with db tag")
	}

	set := postgres.PickColumns(data, postgres.ColumnsExcept(r.writeCols, "id", "created_at"))

	sql, args, err := r.Builder().
		Update(r.tableName).
		SetMap(set).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if domainErr := r.translateWriteError(err, data); domainErr != nil {
			return domainErr
		}
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, fmt.Sprint(entityID))
	}

	return nil
}

// getOne runs q and scans a single row.
func (r *BaseCatalogRepo[T]) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (T, error) {
	var entity T

	sql, args, err := q.Limit(1).ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), &entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.entityName, key)
		}
		return entity, fmt.Errorf("get %s: %w", r.tableName, err)
	}

	return entity, nil
}

// GetByID retrieves entity by ID.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (*T, error) {
	entity, err := r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{r.idCol: entityID}), entityID.String())
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// selectAll runs q and scans every row.
func (r *BaseCatalogRepo[T]) selectAll(ctx context.Context, q squirrel.SelectBuilder) ([]*T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]*T, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return items, nil
}

// List retrieves entities with search and pagination.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*T], error) {
	filter = filter.Normalize()
	result := domain.ListResult[*T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		or := squirrel.Or{}
		for _, col := range r.searchCols {
			or = append(or, squirrel.ILike{col: pattern})
		}
		q = q.Where(or)
	}

	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := r.querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	items, err := r.selectAll(ctx, q.
		OrderBy(r.orderBy).
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)))
	if err != nil {
		return result, err
	}
	result.Items = items

	return result, nil
}

// Delete performs physical removal from the database.
func (r *BaseCatalogRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	sql, args, err := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict(r.entityName+" is still referenced by other records").
				WithDetail("entity", r.entityName).
				WithDetail("id", entityID.String()).
				WithCause(err)
		}
		return fmt.Errorf("execute delete %s: %w", r.tableName, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID.String())
	}

	return nil
}
