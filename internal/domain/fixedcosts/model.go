// Package fixedcosts holds the monthly overhead that pricing amortizes per unit.
package fixedcosts

import (
	"time"

	"github.com/shopspring/decimal"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/types"
)

// FixedCosts is the process-wide overhead record. Exactly one exists once configured.
type FixedCosts struct {
	Rent                 types.Money     `db:"rent" json:"rent"`
	Taxes                types.Money     `db:"taxes" json:"taxes"`
	Utilities            types.Money     `db:"utilities" json:"utilities"`
	Marketing            types.Money     `db:"marketing" json:"marketing"`
	Accounting           types.Money     `db:"accounting" json:"accounting"`
	ExpectedMonthlySales decimal.Decimal `db:"expected_monthly_sales" json:"expectedMonthlySales"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updatedAt"`
}

// Total sums the five cost fields.
func (f *FixedCosts) Total() types.Money {
	return f.Rent.Add(f.Taxes).Add(f.Utilities).Add(f.Marketing).Add(f.Accounting)
}

// PerUnit spreads Total over the expected monthly sales volume.
func (f *FixedCosts) PerUnit() (types.Money, error) {
	if !f.ExpectedMonthlySales.IsPositive() {
		return types.Zero(), apperror.NewInvalidValue("expected monthly sales must be greater than zero").
			WithDetail("expectedMonthlySales", f.ExpectedMonthlySales.String())
	}
	return f.Total().Div(f.ExpectedMonthlySales), nil
}

// Validate rejects negative costs and a non-positive sales volume.
func (f *FixedCosts) Validate() error {
	fields := map[string]types.Money{
		"rent":       f.Rent,
		"taxes":      f.Taxes,
		"utilities":  f.Utilities,
		"marketing":  f.Marketing,
		"accounting": f.Accounting,
	}
	for name, v := range fields {
		if v.IsNegative() {
			return apperror.NewInvalidValue("fixed costs cannot be negative").WithDetail("field", name)
		}
	}
	if _, err := f.PerUnit(); err != nil {
		return err
	}
	return nil
}
