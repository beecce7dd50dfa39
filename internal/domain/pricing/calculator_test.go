package pricing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain/fixedcosts"
	"kitchenledger/internal/domain/inventory"
	"kitchenledger/internal/domain/product"
)

type stubInventory map[id.ID]*inventory.Item

func (s stubInventory) GetByID(_ context.Context, itemID id.ID) (*inventory.Item, error) {
	item, ok := s[itemID]
	if !ok {
		return nil, apperror.NewNotFound("inventory", itemID.String())
	}
	return item, nil
}

func breadFixture() (stubInventory, *product.Product) {
	flour := &inventory.Item{ID: id.New(), Quantity: types.NewQuantityFromInt(50), Unit: inventory.UnitKilogram, CostPerUnit: "3,00"}
	bread := &product.Product{
		ID:        id.New(),
		Name:      "Bread",
		Yield:     10,
		Lifecycle: product.LifecycleActive,
		Ingredients: []product.Ingredient{
			{InventoryID: flour.ID, Name: "Flour", Quantity: types.NewQuantityFromInt(2)},
		},
	}
	return stubInventory{flour.ID: flour}, bread
}

func overhead(total, sales string) *fixedcosts.FixedCosts {
	return &fixedcosts.FixedCosts{
		Rent:                 types.MustMoney(total),
		ExpectedMonthlySales: decimal.RequireFromString(sales),
	}
}

func TestBreadScenario(t *testing.T) {
	inv, bread := breadFixture()
	calc := NewCalculator(inv)

	cost, err := calc.ProductionCost(context.Background(), bread, 10)
	require.NoError(t, err)
	assert.Equal(t, "0.6", cost.String())

	price, err := SellingPrice(cost, decimal.NewFromInt(20), decimal.NewFromInt(10), overhead("500", "1000"))
	require.NoError(t, err)
	assert.Equal(t, "1.47", price.StringFixed(2))
}

func TestProductionCost_SumsIngredients(t *testing.T) {
	inv, bread := breadFixture()
	butter := &inventory.Item{ID: id.New(), CostPerUnit: "12.50", Unit: inventory.UnitKilogram}
	inv[butter.ID] = butter
	bread.Ingredients = append(bread.Ingredients, product.Ingredient{
		InventoryID: butter.ID, Name: "Butter", Quantity: types.NewQuantityFromFloat64(0.25),
	})

	cost, err := NewCalculator(inv).ProductionCost(context.Background(), bread, 4)
	require.NoError(t, err)
	// (2×3.00 + 0.25×12.50) / 4 = 2.28125
	assert.Equal(t, "2.28", cost.StringFixed(2))
}

func TestProductionCost_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("archived product", func(t *testing.T) {
		inv, bread := breadFixture()
		bread.Lifecycle = product.LifecycleArchived
		_, err := NewCalculator(inv).ProductionCost(ctx, bread, 10)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("missing inventory", func(t *testing.T) {
		_, bread := breadFixture()
		_, err := NewCalculator(stubInventory{}).ProductionCost(ctx, bread, 10)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("unparseable cost", func(t *testing.T) {
		inv, bread := breadFixture()
		for _, item := range inv {
			item.CostPerUnit = "three"
		}
		_, err := NewCalculator(inv).ProductionCost(ctx, bread, 10)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidValue))
	})

	t.Run("zero yield", func(t *testing.T) {
		inv, bread := breadFixture()
		_, err := NewCalculator(inv).ProductionCost(ctx, bread, 0)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidValue))
	})
}

func TestSellingPrice_Guards(t *testing.T) {
	cost := types.MustMoney("0.60")

	_, err := SellingPrice(cost, decimal.NewFromInt(20), decimal.NewFromInt(100), overhead("500", "1000"))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidValue))

	_, err = SellingPrice(cost, decimal.NewFromInt(20), decimal.NewFromInt(10), overhead("500", "0"))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidValue))

	_, err = SellingPrice(cost, decimal.NewFromInt(20), decimal.NewFromInt(10), nil)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSellingPrice_Deterministic(t *testing.T) {
	cost := types.MustMoney("0.60")
	fc := overhead("500", "1000")

	first, err := SellingPrice(cost, decimal.NewFromInt(20), decimal.NewFromInt(10), fc)
	require.NoError(t, err)
	second, err := SellingPrice(cost, decimal.NewFromInt(20), decimal.NewFromInt(10), fc)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}
