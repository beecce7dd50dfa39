// Package inventory is the stock ledger: quantity on hand and unit cost per input.
package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
)

// Unit is the measuring unit of a stocked input.
type Unit string

const (
	UnitKilogram Unit = "kg"
	UnitPiece    Unit = "un"
)

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	return u == UnitKilogram || u == UnitPiece
}

// Item is the stock record of one input.
//
// CostPerUnit keeps the text the operator typed ("3,00"); Cost parses it.
type Item struct {
	ID          id.ID          `db:"id" json:"id"`
	InputID     id.ID          `db:"input_id" json:"inputId"`
	InputName   string         `db:"input_name" json:"inputName"`
	Date        time.Time      `db:"date" json:"date"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	Unit        Unit           `db:"unit" json:"unit"`
	CostPerUnit string         `db:"cost_per_unit" json:"costPerUnit"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// Cost returns the parsed cost per unit.
func (i *Item) Cost() (decimal.Decimal, error) {
	cost, err := types.ParseLocaleDecimal(i.CostPerUnit)
	if err != nil {
		return decimal.Zero, apperror.NewInvalidValue("cost per unit is not a number").
			WithDetail("inventoryId", i.ID.String()).
			WithDetail("costPerUnit", i.CostPerUnit).
			WithCause(err)
	}
	return cost, nil
}

// Validate enforces the ledger invariants.
func (i *Item) Validate() error {
	if id.IsNil(i.InputID) {
		return apperror.NewInvalidInput("input is required").WithDetail("field", "inputId")
	}
	if i.Quantity.IsNegative() {
		return apperror.NewInvalidInput("quantity cannot be negative").WithDetail("field", "quantity")
	}
	if !i.Unit.Valid() {
		return apperror.NewInvalidInput("unit must be kg or un").WithDetail("field", "unit")
	}
	i.CostPerUnit = strings.TrimSpace(i.CostPerUnit)
	cost, err := types.ParseLocaleDecimal(i.CostPerUnit)
	if err != nil {
		return apperror.NewInvalidInput("cost per unit must be a number").WithDetail("field", "costPerUnit")
	}
	if cost.IsNegative() {
		return apperror.NewInvalidInput("cost per unit cannot be negative").WithDetail("field", "costPerUnit")
	}
	return nil
}

// LowStock is a stock record at or below the stock limit of its input.
type LowStock struct {
	Item
	StockLimit types.Quantity `db:"stock_limit" json:"stockLimit"`
}
