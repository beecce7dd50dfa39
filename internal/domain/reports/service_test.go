package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain/fixedcosts"
	"kitchenledger/internal/domain/order"
)

type inlineTx struct{}

func (inlineTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (inlineTx) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type readOnlyKey struct{}

// markingTx tags ctx so reads can tell they ran inside ReadOnly.
type markingTx struct{ inlineTx }

func (markingTx) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, readOnlyKey{}, true))
}

type stubOrders struct {
	orders   []*order.Order
	last     order.ListFilter
	readOnly []bool
}

func (s *stubOrders) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	s.last = filter
	ro, _ := ctx.Value(readOnlyKey{}).(bool)
	s.readOnly = append(s.readOnly, ro)
	var out []*order.Order
	for _, o := range s.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.From != nil && o.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && o.Date.After(*filter.To) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

type stubFixedCosts struct{ fc *fixedcosts.FixedCosts }

func (s stubFixedCosts) Load(context.Context) (*fixedcosts.FixedCosts, error) {
	if s.fc == nil {
		return nil, apperror.NewNotFound("fixed costs", "singleton")
	}
	return s.fc, nil
}

func fixed50() *fixedcosts.FixedCosts {
	return &fixedcosts.FixedCosts{
		Rent:                 types.MustMoney("20"),
		Taxes:                types.MustMoney("10"),
		Utilities:            types.MustMoney("10"),
		Marketing:            types.MustMoney("5"),
		Accounting:           types.MustMoney("5"),
		ExpectedMonthlySales: decimal.NewFromInt(100),
	}
}

func doneOrder(date time.Time, price, cost string, qty int, fee string) *order.Order {
	unit := types.MustMoney(price)
	return &order.Order{
		ID:         id.New(),
		Date:       date,
		Status:     order.StatusDone,
		TotalPrice: unit.Mul(decimal.NewFromInt(int64(qty))),
		Customer:   order.CustomerSnapshot{Name: "Ana"},
		Items: []order.Item{{
			PricingID: id.New(),
			Quantity:  qty,
			Snapshot: &order.PricingSnapshot{
				ProductName:    "Bread",
				SellingPrice:   unit,
				ProductionCost: types.MustMoney(cost),
				PlatformFeePct: decimal.RequireFromString(fee),
			},
		}},
	}
}

func TestSalesSummary_NetProfit(t *testing.T) {
	day := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	src := &stubOrders{orders: []*order.Order{
		doneOrder(day, "100", "25", 2, "0"),
		doneOrder(day, "50", "25", 2, "0"),
	}}
	svc := NewService(src, stubFixedCosts{fc: fixed50()}, inlineTx{})

	sum, err := svc.SalesSummary(context.Background(), Period{})
	require.NoError(t, err)

	assert.Equal(t, "300", sum.TotalSales.String())
	assert.Equal(t, "100", sum.TotalProductionCost.String())
	assert.Equal(t, "50", sum.TotalFixedCosts.String())
	assert.Equal(t, "150", sum.NetProfit.String())
	assert.Equal(t, 2, sum.OrderCount)
	require.NotNil(t, src.last.Status)
	assert.Equal(t, order.StatusDone, *src.last.Status)
}

func TestSalesSummary_EndDateIsInclusive(t *testing.T) {
	late := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	next := time.Date(2026, 3, 11, 0, 30, 0, 0, time.UTC)
	src := &stubOrders{orders: []*order.Order{
		doneOrder(late, "10", "2", 1, "0"),
		doneOrder(next, "99", "2", 1, "0"),
	}}
	svc := NewService(src, stubFixedCosts{fc: fixed50()}, inlineTx{})

	end := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	sum, err := svc.SalesSummary(context.Background(), Period{End: &end})
	require.NoError(t, err)
	assert.Equal(t, "10", sum.TotalSales.String())
}

func TestSalesSummary_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewService(&stubOrders{}, stubFixedCosts{}, inlineTx{}).SalesSummary(ctx, Period{})
	assert.True(t, apperror.IsNotFound(err))

	broken := doneOrder(time.Now(), "10", "2", 1, "0")
	broken.Items[0].Snapshot = nil
	_, err = NewService(&stubOrders{orders: []*order.Order{broken}}, stubFixedCosts{fc: fixed50()}, inlineTx{}).
		SalesSummary(ctx, Period{})
	assert.True(t, apperror.IsNotFound(err))

	start := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = NewService(&stubOrders{}, stubFixedCosts{fc: fixed50()}, inlineTx{}).
		SalesSummary(ctx, Period{Start: &start, End: &end})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
}

func TestOrderReport_Row(t *testing.T) {
	src := &stubOrders{orders: []*order.Order{doneOrder(time.Now(), "20", "6", 3, "10")}}
	svc := NewService(src, stubFixedCosts{}, inlineTx{})

	report, err := svc.OrderReport(context.Background(), Period{}, nil)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, "Bread", row.ProductName)
	assert.Equal(t, "Ana", row.CustomerName)
	assert.Equal(t, "60", row.LineTotal.String())
	assert.Equal(t, "18", row.ProductionCostLine.String())
	assert.Equal(t, "6", row.PlatformFeeAmount.String())
	assert.Equal(t, "36", row.ProfitWithFee.String())
	assert.Equal(t, "42", row.ProfitWithoutFee.String())
	assert.Nil(t, src.last.Status)
}

func TestReports_ReadInsideReadOnlyTransaction(t *testing.T) {
	src := &stubOrders{orders: []*order.Order{doneOrder(time.Now(), "20", "6", 3, "10")}}
	svc := NewService(src, stubFixedCosts{fc: fixed50()}, markingTx{})
	ctx := context.Background()

	_, err := svc.SalesSummary(ctx, Period{})
	require.NoError(t, err)
	_, err = svc.OrderReport(ctx, Period{}, nil)
	require.NoError(t, err)

	assert.Equal(t, []bool{true, true}, src.readOnly)
}
