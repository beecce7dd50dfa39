package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain"
	"kitchenledger/internal/domain/input"
)

type inlineTx struct{}

func (inlineTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRepo struct {
	items map[id.ID]*Item
	low   []*LowStock
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[id.ID]*Item{}}
}

func (r *memRepo) Create(_ context.Context, item *Item) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, itemID id.ID) (*Item, error) {
	if it, ok := r.items[itemID]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, apperror.NewNotFound("inventory", itemID.String())
}

func (r *memRepo) ExistsForInput(_ context.Context, inputID id.ID) (bool, error) {
	for _, it := range r.items {
		if it.InputID == inputID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) List(context.Context, domain.ListFilter) (domain.ListResult[*Item], error) {
	return domain.ListResult[*Item]{}, nil
}

func (r *memRepo) Update(_ context.Context, item *Item) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, itemID id.ID) error {
	delete(r.items, itemID)
	return nil
}

func (r *memRepo) ListBelowLimit(context.Context) ([]*LowStock, error) {
	return r.low, nil
}

func (r *memRepo) LockForUpdate(_ context.Context, itemIDs []id.ID) (map[id.ID]*Item, error) {
	out := map[id.ID]*Item{}
	for _, itemID := range itemIDs {
		if it, ok := r.items[itemID]; ok {
			cp := *it
			out[itemID] = &cp
		}
	}
	return out, nil
}

func (r *memRepo) Deduct(_ context.Context, itemID id.ID, amount types.Quantity) (bool, error) {
	it := r.items[itemID]
	if it.Quantity < amount {
		return false, nil
	}
	it.Quantity -= amount
	return true, nil
}

func (r *memRepo) Restore(_ context.Context, itemID id.ID, amount types.Quantity) error {
	r.items[itemID].Quantity += amount
	return nil
}

type inputsStub map[id.ID]*input.Input

func (s inputsStub) GetByID(_ context.Context, inputID id.ID) (*input.Input, error) {
	if in, ok := s[inputID]; ok {
		return in, nil
	}
	return nil, apperror.NewNotFound("input", inputID.String())
}

func newService(t *testing.T) (*Service, *memRepo, *input.Input) {
	t.Helper()
	flour := input.NewInput("Flour", types.NewQuantityFromInt(5))
	repo := newMemRepo()
	return NewService(repo, inputsStub{flour.ID: flour}, inlineTx{}), repo, flour
}

func TestService_Create(t *testing.T) {
	svc, repo, flour := newService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, CreateRequest{
		InputID:     flour.ID,
		Quantity:    types.NewQuantityFromInt(20),
		Unit:        UnitKilogram,
		CostPerUnit: "4,50",
	})
	require.NoError(t, err)
	assert.Equal(t, "Flour", item.InputName)
	assert.Contains(t, repo.items, item.ID)

	cost, err := item.Cost()
	require.NoError(t, err)
	assert.Equal(t, "4.5", cost.String())

	_, err = svc.Create(ctx, CreateRequest{
		InputID:     flour.ID,
		Quantity:    types.NewQuantityFromInt(1),
		Unit:        UnitKilogram,
		CostPerUnit: "1",
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))
}

func TestService_CreateValidation(t *testing.T) {
	svc, _, flour := newService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{"missing input", CreateRequest{Unit: UnitKilogram, CostPerUnit: "1"}},
		{"negative quantity", CreateRequest{InputID: flour.ID, Quantity: -1, Unit: UnitKilogram, CostPerUnit: "1"}},
		{"bad unit", CreateRequest{InputID: flour.ID, Unit: "lb", CostPerUnit: "1"}},
		{"cost not a number", CreateRequest{InputID: flour.ID, Unit: UnitPiece, CostPerUnit: "cheap"}},
		{"negative cost", CreateRequest{InputID: flour.ID, Unit: UnitPiece, CostPerUnit: "-2,00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput), "got %v", err)
		})
	}

	_, err := svc.Create(ctx, CreateRequest{InputID: id.New(), Unit: UnitKilogram, CostPerUnit: "1"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_UpdatePartial(t *testing.T) {
	svc, repo, flour := newService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, CreateRequest{
		InputID:     flour.ID,
		Quantity:    types.NewQuantityFromInt(2),
		Unit:        UnitKilogram,
		CostPerUnit: "4,50",
	})
	require.NoError(t, err)

	qty := types.NewQuantityFromInt(12)
	updated, err := svc.Update(ctx, item.ID, UpdateRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, qty, updated.Quantity)
	assert.Equal(t, "4,50", updated.CostPerUnit)
	assert.Equal(t, qty, repo.items[item.ID].Quantity)

	bad := "n/a"
	_, err = svc.Update(ctx, item.ID, UpdateRequest{CostPerUnit: &bad})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
	assert.Equal(t, "4,50", repo.items[item.ID].CostPerUnit)

	_, err = svc.Update(ctx, id.New(), UpdateRequest{Quantity: &qty})
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_LowStock(t *testing.T) {
	svc, repo, _ := newService(t)
	repo.low = []*LowStock{{Item: Item{InputName: "Sugar", Quantity: 5}, StockLimit: types.NewQuantityFromInt(3)}}

	items, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Sugar", items[0].InputName)
}
