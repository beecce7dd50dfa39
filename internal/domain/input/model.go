// Package input manages raw-material master records (flour, sugar, packaging).
package input

import (
	"strings"
	"time"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
)

// Input is a raw material the kitchen buys and stocks.
type Input struct {
	ID         id.ID          `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	Date       time.Time      `db:"date" json:"date"`
	StockLimit types.Quantity `db:"stock_limit" json:"stockLimit"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updatedAt"`
}

// NewInput creates an input stamped with the current time.
func NewInput(name string, stockLimit types.Quantity) *Input {
	now := time.Now().UTC()
	return &Input{
		ID:         id.New(),
		Name:       strings.TrimSpace(name),
		Date:       now,
		StockLimit: stockLimit,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate checks required fields.
func (i *Input) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return apperror.NewInvalidInput("name is required").WithDetail("field", "name")
	}
	if i.StockLimit.IsNegative() {
		return apperror.NewInvalidInput("stock limit cannot be negative").WithDetail("field", "stockLimit")
	}
	return nil
}
