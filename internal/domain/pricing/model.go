package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
)

// Pricing is the stored price of a product. ProductionCost and SellingPrice
// are derived and rewritten on every recalculation.
type Pricing struct {
	ID              id.ID           `db:"id" json:"id"`
	ProductID       id.ID           `db:"product_id" json:"productId"`
	ProductName     string          `db:"product_name" json:"productName"`
	ProfitMarginPct decimal.Decimal `db:"profit_margin_pct" json:"profitMarginPct"`
	PlatformFeePct  decimal.Decimal `db:"platform_fee_pct" json:"platformFeePct"`
	Yields          int             `db:"yields" json:"yields"`
	ProductionCost  types.Money     `db:"production_cost" json:"productionCost"`
	SellingPrice    types.Money     `db:"selling_price" json:"sellingPrice"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}

// validateInputs checks caller-supplied parameters. A fee of 100% or more is
// InvalidValue; negative values are InvalidInput.
func validateInputs(marginPct, feePct decimal.Decimal, yields int) error {
	if err := checkFee(feePct); err != nil {
		return err
	}
	if marginPct.IsNegative() {
		return apperror.NewInvalidInput("profit margin cannot be negative").WithDetail("field", "profitMarginPct")
	}
	if feePct.IsNegative() {
		return apperror.NewInvalidInput("platform fee cannot be negative").WithDetail("field", "platformFeePct")
	}
	if yields < 1 {
		return apperror.NewInvalidInput("yields must be at least 1").WithDetail("field", "yields")
	}
	return nil
}
