package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain/inventory"
)

type memRepo struct {
	products map[id.ID]*Product
}

func (r *memRepo) Create(_ context.Context, p *Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memRepo) GetByID(_ context.Context, productID id.ID) (*Product, error) {
	if p, ok := r.products[productID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, apperror.NewNotFound("product", productID.String())
}

func (r *memRepo) ListActive(context.Context, string) ([]*Product, error) {
	out := make([]*Product, 0)
	for _, p := range r.products {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, p *Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memRepo) Archive(_ context.Context, productID id.ID) error {
	r.products[productID].Lifecycle = LifecycleArchived
	return nil
}

type stockStub map[id.ID]*inventory.Item

func (s stockStub) GetByID(_ context.Context, itemID id.ID) (*inventory.Item, error) {
	if it, ok := s[itemID]; ok {
		return it, nil
	}
	return nil, apperror.NewNotFound("inventory", itemID.String())
}

func setup() (*Service, *memRepo, *inventory.Item) {
	flour := &inventory.Item{ID: id.New(), InputName: "Flour"}
	repo := &memRepo{products: map[id.ID]*Product{}}
	return NewService(repo, stockStub{flour.ID: flour}), repo, flour
}

func TestService_CreateFillsDefaults(t *testing.T) {
	svc, _, flour := setup()

	p, err := svc.Create(context.Background(), Request{
		Name:        "  Bread ",
		Ingredients: []Ingredient{{InventoryID: flour.ID, Quantity: types.NewQuantityFromInt(1)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bread", p.Name)
	assert.Equal(t, 1, p.Yield)
	assert.Equal(t, LifecycleActive, p.Lifecycle)
	assert.Equal(t, "Flour", p.Ingredients[0].Name)
}

func TestService_CreateValidation(t *testing.T) {
	svc, _, flour := setup()
	one := types.NewQuantityFromInt(1)

	tests := []struct {
		name string
		req  Request
		code string
	}{
		{"no name", Request{Ingredients: []Ingredient{{InventoryID: flour.ID, Quantity: one}}}, apperror.CodeInvalidInput},
		{"negative yield", Request{Name: "x", Yield: -2, Ingredients: []Ingredient{{InventoryID: flour.ID, Quantity: one}}}, apperror.CodeInvalidInput},
		{"no ingredients", Request{Name: "x"}, apperror.CodeInvalidInput},
		{"zero quantity", Request{Name: "x", Ingredients: []Ingredient{{InventoryID: flour.ID}}}, apperror.CodeInvalidInput},
		{"duplicate", Request{Name: "x", Ingredients: []Ingredient{{InventoryID: flour.ID, Quantity: one}, {InventoryID: flour.ID, Quantity: one}}}, apperror.CodeInvalidInput},
		{"unknown inventory", Request{Name: "x", Ingredients: []Ingredient{{InventoryID: id.New(), Quantity: one}}}, apperror.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.True(t, apperror.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestService_ArchivedIsHiddenButResolvable(t *testing.T) {
	svc, _, flour := setup()
	ctx := context.Background()

	p, err := svc.Create(ctx, Request{
		Name:        "Cake",
		Ingredients: []Ingredient{{InventoryID: flour.ID, Quantity: types.NewQuantityFromInt(2)}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Archive(ctx, p.ID))

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive())

	_, err = svc.GetActive(ctx, p.ID)
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.Update(ctx, p.ID, Request{Name: "Cake 2"})
	assert.True(t, apperror.IsNotFound(err))

	assert.True(t, apperror.IsNotFound(svc.Archive(ctx, p.ID)))

	list, err := svc.ListActive(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}
