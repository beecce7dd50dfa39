// Package pricing derives per-unit production cost and selling price of products.
package pricing

import (
	"context"

	"github.com/shopspring/decimal"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain/fixedcosts"
	"kitchenledger/internal/domain/inventory"
	"kitchenledger/internal/domain/product"
)

var hundred = decimal.NewFromInt(100)

// InventoryReader resolves the current cost of an ingredient.
type InventoryReader interface {
	GetByID(ctx context.Context, itemID id.ID) (*inventory.Item, error)
}

// Calculator computes prices from live inventory costs.
type Calculator struct {
	inventory InventoryReader
}

// NewCalculator creates a calculator reading costs from inventory.
func NewCalculator(inventory InventoryReader) *Calculator {
	return &Calculator{inventory: inventory}
}

// ProductionCost returns the cost of one unit: the sum of ingredient
// cost × quantity over the whole batch, divided by yieldCount.
func (c *Calculator) ProductionCost(ctx context.Context, p *product.Product, yieldCount int) (types.Money, error) {
	if p == nil || !p.IsActive() {
		var productID string
		if p != nil {
			productID = p.ID.String()
		}
		return types.Zero(), apperror.NewNotFound("product", productID)
	}
	if yieldCount < 1 {
		return types.Zero(), apperror.NewInvalidValue("yields must be at least 1").
			WithDetail("yields", yieldCount)
	}

	batch := types.Zero()
	for _, ing := range p.Ingredients {
		if !ing.Quantity.IsPositive() {
			return types.Zero(), apperror.NewInvalidValue("ingredient quantity must be positive").
				WithDetail("ingredient", ing.Name)
		}
		item, err := c.inventory.GetByID(ctx, ing.InventoryID)
		if err != nil {
			return types.Zero(), err
		}
		cost, err := item.Cost()
		if err != nil {
			return types.Zero(), err
		}
		batch = batch.Add(cost.Mul(ing.Quantity.Decimal()))
	}

	return types.RoundMoney(batch.Div(decimal.NewFromInt(int64(yieldCount)))), nil
}

// SellingPrice applies overhead, margin and platform fee to a production cost:
//
//	((productionCost + fixedCostPerUnit) × (1 + margin/100)) / (1 − fee/100)
func SellingPrice(productionCost types.Money, marginPct, feePct decimal.Decimal, fc *fixedcosts.FixedCosts) (types.Money, error) {
	if err := checkFee(feePct); err != nil {
		return types.Zero(), err
	}
	if fc == nil {
		return types.Zero(), apperror.NewNotFound("fixed costs", "singleton")
	}
	perUnit, err := fc.PerUnit()
	if err != nil {
		return types.Zero(), err
	}

	withMargin := productionCost.Add(perUnit).Mul(decimal.NewFromInt(1).Add(marginPct.Div(hundred)))
	price := withMargin.Div(decimal.NewFromInt(1).Sub(feePct.Div(hundred)))
	return types.RoundMoney(price), nil
}

func checkFee(feePct decimal.Decimal) error {
	if feePct.GreaterThanOrEqual(hundred) {
		return apperror.NewInvalidValue("platform fee must be below 100%").
			WithDetail("platformFeePct", feePct.String())
	}
	return nil
}
