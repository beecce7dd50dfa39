// Package product is the recipe catalog: sellable products with their ingredient lists.
package product

import (
	"strings"
	"time"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
)

// Lifecycle distinguishes sellable products from archived ones.
// Archived products stay resolvable by id for historical data.
type Lifecycle string

const (
	LifecycleActive   Lifecycle = "active"
	LifecycleArchived Lifecycle = "archived"
)

// Ingredient is one recipe line: how much of an inventory item one batch uses.
type Ingredient struct {
	InventoryID id.ID          `json:"inventoryId"`
	Name        string         `json:"name"`
	Quantity    types.Quantity `json:"quantity"`
}

// Product is a recipe. One batch yields Yield sellable units.
type Product struct {
	ID          id.ID        `db:"id" json:"id"`
	Name        string       `db:"name" json:"name"`
	Yield       int          `db:"yield" json:"yield"`
	Ingredients []Ingredient `db:"ingredients" json:"ingredients"`
	Lifecycle   Lifecycle    `db:"lifecycle" json:"lifecycle"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`
}

// IsActive reports whether the product may be priced and ordered.
func (p *Product) IsActive() bool {
	return p.Lifecycle != LifecycleArchived
}

// Validate checks recipe invariants.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewInvalidInput("name is required").WithDetail("field", "name")
	}
	if p.Yield < 1 {
		return apperror.NewInvalidInput("yield must be at least 1").WithDetail("field", "yield")
	}
	if len(p.Ingredients) == 0 {
		return apperror.NewInvalidInput("at least one ingredient is required").WithDetail("field", "ingredients")
	}
	seen := make(map[id.ID]struct{}, len(p.Ingredients))
	for i, ing := range p.Ingredients {
		if id.IsNil(ing.InventoryID) {
			return apperror.NewInvalidInput("ingredient inventory is required").WithDetail("index", i)
		}
		if !ing.Quantity.IsPositive() {
			return apperror.NewInvalidInput("ingredient quantity must be positive").WithDetail("index", i)
		}
		if _, dup := seen[ing.InventoryID]; dup {
			return apperror.NewInvalidInput("ingredient listed twice").
				WithDetail("inventoryId", ing.InventoryID.String())
		}
		seen[ing.InventoryID] = struct{}{}
	}
	return nil
}
