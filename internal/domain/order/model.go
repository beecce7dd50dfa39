// Package order is the order transaction engine: creation with stock
// deduction, status workflow and cancellation with stock restoration.
package order

import (
	"time"

	"github.com/shopspring/decimal"

	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain/customer"
	"kitchenledger/internal/domain/pricing"
	"kitchenledger/internal/domain/product"
)

// IngredientSnapshot is a recipe line as it was when the order was placed.
type IngredientSnapshot struct {
	InventoryID id.ID          `json:"inventoryId"`
	Name        string         `json:"name"`
	Quantity    types.Quantity `json:"quantity"`
}

// PricingSnapshot freezes the price and recipe of an item at creation time.
type PricingSnapshot struct {
	PricingID       id.ID                `json:"pricingId"`
	ProductID       id.ID                `json:"productId"`
	ProductName     string               `json:"productName"`
	SellingPrice    types.Money          `json:"sellingPrice"`
	ProductionCost  types.Money          `json:"productionCost"`
	ProfitMarginPct decimal.Decimal      `json:"profitMarginPct"`
	PlatformFeePct  decimal.Decimal      `json:"platformFeePct"`
	Yields          int                  `json:"yields"`
	Ingredients     []IngredientSnapshot `json:"ingredients"`
}

// NewPricingSnapshot copies the values an order must keep.
func NewPricingSnapshot(pr *pricing.Pricing, p *product.Product) *PricingSnapshot {
	ingredients := make([]IngredientSnapshot, len(p.Ingredients))
	for i, ing := range p.Ingredients {
		ingredients[i] = IngredientSnapshot{
			InventoryID: ing.InventoryID,
			Name:        ing.Name,
			Quantity:    ing.Quantity,
		}
	}
	return &PricingSnapshot{
		PricingID:       pr.ID,
		ProductID:       p.ID,
		ProductName:     p.Name,
		SellingPrice:    pr.SellingPrice,
		ProductionCost:  pr.ProductionCost,
		ProfitMarginPct: pr.ProfitMarginPct,
		PlatformFeePct:  pr.PlatformFeePct,
		Yields:          pr.Yields,
		Ingredients:     ingredients,
	}
}

// CustomerSnapshot freezes the customer's contact data.
type CustomerSnapshot struct {
	CustomerID id.ID  `json:"customerId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

// NewCustomerSnapshot copies a customer.
func NewCustomerSnapshot(c *customer.Customer) CustomerSnapshot {
	return CustomerSnapshot{
		CustomerID: c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
	}
}

// Item is one ordered line.
type Item struct {
	PricingID id.ID            `json:"pricingId"`
	Quantity  int              `json:"quantity"`
	Snapshot  *PricingSnapshot `json:"snapshot"`
}

// LineTotal is selling price × quantity.
func (i Item) LineTotal() types.Money {
	if i.Snapshot == nil {
		return types.Zero()
	}
	return i.Snapshot.SellingPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is created once; afterwards only Status and Position change.
type Order struct {
	ID         id.ID            `db:"id" json:"id"`
	CustomerID id.ID            `db:"customer_id" json:"customerId"`
	Customer   CustomerSnapshot `db:"customer_snapshot" json:"customer"`
	Items      []Item           `db:"items" json:"items"`
	TotalPrice types.Money      `db:"total_price" json:"totalPrice"`
	Date       time.Time        `db:"date" json:"date"`
	DueDate    time.Time        `db:"due_date" json:"dueDate"`
	Notes      string           `db:"notes" json:"notes,omitempty"`
	Status     Status           `db:"status" json:"status"`
	Position   int              `db:"position" json:"position"`
	CreatedAt  time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updatedAt"`
}

// ListFilter narrows order listings. Date bounds apply to Date and are inclusive.
type ListFilter struct {
	Status     *Status
	CustomerID *id.ID
	From       *time.Time
	To         *time.Time
}
