package dto

import (
	"github.com/shopspring/decimal"

	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain/customer"
	"kitchenledger/internal/domain/fixedcosts"
	"kitchenledger/internal/domain/input"
	"kitchenledger/internal/domain/inventory"
	"kitchenledger/internal/domain/pricing"
	"kitchenledger/internal/domain/product"
)

// --- Inputs ---

type CreateInputRequest struct {
	Name       string         `json:"name" binding:"required"`
	StockLimit types.Quantity `json:"stockLimit"`
}

type UpdateInputRequest struct {
	Name       *string         `json:"name"`
	StockLimit *types.Quantity `json:"stockLimit"`
}

func (r *UpdateInputRequest) ToDomain() input.UpdateRequest {
	return input.UpdateRequest{Name: r.Name, StockLimit: r.StockLimit}
}

// --- Inventory ---

type CreateInventoryRequest struct {
	InputID     id.ID          `json:"inputId" binding:"required"`
	Quantity    types.Quantity `json:"quantity"`
	Unit        string         `json:"unit" binding:"required,oneof=kg un"`
	CostPerUnit string         `json:"costPerUnit" binding:"required"`
}

func (r *CreateInventoryRequest) ToDomain() inventory.CreateRequest {
	return inventory.CreateRequest{
		InputID:     r.InputID,
		Quantity:    r.Quantity,
		Unit:        inventory.Unit(r.Unit),
		CostPerUnit: r.CostPerUnit,
	}
}

type UpdateInventoryRequest struct {
	Quantity    *types.Quantity `json:"quantity"`
	Unit        *string         `json:"unit" binding:"omitempty,oneof=kg un"`
	CostPerUnit *string         `json:"costPerUnit"`
}

func (r *UpdateInventoryRequest) ToDomain() inventory.UpdateRequest {
	req := inventory.UpdateRequest{Quantity: r.Quantity, CostPerUnit: r.CostPerUnit}
	if r.Unit != nil {
		u := inventory.Unit(*r.Unit)
		req.Unit = &u
	}
	return req
}

// --- Products ---

type IngredientRequest struct {
	InventoryID id.ID          `json:"inventoryId" binding:"required"`
	Name        string         `json:"name"`
	Quantity    types.Quantity `json:"quantity"`
}

type ProductRequest struct {
	Name        string              `json:"name" binding:"required"`
	Yield       int                 `json:"yield" binding:"omitempty,min=1"`
	Ingredients []IngredientRequest `json:"ingredients" binding:"dive"`
}

func (r *ProductRequest) ToDomain() product.Request {
	ingredients := make([]product.Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = product.Ingredient{
			InventoryID: ing.InventoryID,
			Name:        ing.Name,
			Quantity:    ing.Quantity,
		}
	}
	return product.Request{Name: r.Name, Yield: r.Yield, Ingredients: ingredients}
}

// --- Pricing ---

type CreatePricingRequest struct {
	ProductID       id.ID           `json:"productId" binding:"required"`
	ProfitMarginPct decimal.Decimal `json:"profitMarginPct"`
	PlatformFeePct  decimal.Decimal `json:"platformFeePct"`
	Yields          *int            `json:"yields"`
}

func (r *CreatePricingRequest) ToDomain() pricing.CreateRequest {
	return pricing.CreateRequest{
		ProductID:       r.ProductID,
		ProfitMarginPct: r.ProfitMarginPct,
		PlatformFeePct:  r.PlatformFeePct,
		Yields:          r.Yields,
	}
}

type UpdatePricingRequest struct {
	ProfitMarginPct *decimal.Decimal `json:"profitMarginPct"`
	PlatformFeePct  *decimal.Decimal `json:"platformFeePct"`
	Yields          *int             `json:"yields"`
}

func (r *UpdatePricingRequest) ToDomain() pricing.UpdateRequest {
	return pricing.UpdateRequest{
		ProfitMarginPct: r.ProfitMarginPct,
		PlatformFeePct:  r.PlatformFeePct,
		Yields:          r.Yields,
	}
}

// --- Fixed costs ---

// FixedCostsRequest accepts the five cost fields and the expected sales volume.
type FixedCostsRequest struct {
	Rent                 decimal.Decimal `json:"rent"`
	Taxes                decimal.Decimal `json:"taxes"`
	Utilities            decimal.Decimal `json:"utilities"`
	Marketing            decimal.Decimal `json:"marketing"`
	Accounting           decimal.Decimal `json:"accounting"`
	ExpectedMonthlySales decimal.Decimal `json:"expectedMonthlySales"`
}

func (r *FixedCostsRequest) ToDomain() *fixedcosts.FixedCosts {
	return &fixedcosts.FixedCosts{
		Rent:                 r.Rent,
		Taxes:                r.Taxes,
		Utilities:            r.Utilities,
		Marketing:            r.Marketing,
		Accounting:           r.Accounting,
		ExpectedMonthlySales: r.ExpectedMonthlySales,
	}
}

// --- Customers ---

type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (r *CustomerRequest) ToDomain() customer.Request {
	return customer.Request{Name: r.Name, Email: r.Email, Phone: r.Phone, Address: r.Address}
}
