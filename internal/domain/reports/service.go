package reports

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/tx"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain/fixedcosts"
	"kitchenledger/internal/domain/order"
)

// OrderSource lists persisted orders.
type OrderSource interface {
	List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error)
}

// FixedCostsLoader returns the fixed costs singleton.
type FixedCostsLoader interface {
	Load(ctx context.Context) (*fixedcosts.FixedCosts, error)
}

var hundred = decimal.NewFromInt(100)

// Service provides report generation operations.
type Service struct {
	orders     OrderSource
	fixedCosts FixedCostsLoader
	txManager  tx.ReadOnlyManager
}

// NewService creates a new reports service.
func NewService(orders OrderSource, fixedCosts FixedCostsLoader, txManager tx.ReadOnlyManager) *Service {
	return &Service{orders: orders, fixedCosts: fixedCosts, txManager: txManager}
}

// SalesSummary sums Done orders in the period and subtracts production and
// fixed costs.
func (s *Service) SalesSummary(ctx context.Context, period Period) (*SalesSummary, error) {
	period, err := period.normalize()
	if err != nil {
		return nil, err
	}

	var (
		fc     *fixedcosts.FixedCosts
		orders []*order.Order
	)
	err = s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		if fc, err = s.fixedCosts.Load(ctx); err != nil {
			return err
		}
		done := order.StatusDone
		if orders, err = s.orders.List(ctx, period.filter(&done)); err != nil {
			return fmt.Errorf("list completed orders: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sales := types.Zero()
	production := types.Zero()
	for _, o := range orders {
		sales = sales.Add(o.TotalPrice)
		for _, it := range o.Items {
			if it.Snapshot == nil {
				return nil, apperror.NewNotFound("pricing snapshot", o.ID.String()).
					WithDetail("pricingId", it.PricingID.String())
			}
			production = production.Add(it.Snapshot.ProductionCost.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}

	fixed := fc.Total()
	return &SalesSummary{
		TotalSales:          types.RoundMoney(sales),
		TotalProductionCost: types.RoundMoney(production),
		TotalFixedCosts:     types.RoundMoney(fixed),
		NetProfit:           types.RoundMoney(sales.Sub(production.Add(fixed))),
		OrderCount:          len(orders),
		Start:               period.Start,
		End:                 period.End,
	}, nil
}

// OrderReport builds one row per ordered item. A nil status includes every status.
func (s *Service) OrderReport(ctx context.Context, period Period, status *order.Status) (*OrderReport, error) {
	period, err := period.normalize()
	if err != nil {
		return nil, err
	}

	var orders []*order.Order
	err = s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		if orders, err = s.orders.List(ctx, period.filter(status)); err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows := make([]OrderReportRow, 0, len(orders))
	for _, o := range orders {
		for _, it := range o.Items {
			if it.Snapshot == nil {
				return nil, apperror.NewNotFound("pricing snapshot", o.ID.String()).
					WithDetail("pricingId", it.PricingID.String())
			}
			rows = append(rows, buildRow(o, it))
		}
	}
	return &OrderReport{Rows: rows, Start: period.Start, End: period.End}, nil
}

func buildRow(o *order.Order, it order.Item) OrderReportRow {
	qty := decimal.NewFromInt(int64(it.Quantity))
	snap := it.Snapshot

	lineTotal := snap.SellingPrice.Mul(qty)
	costLine := snap.ProductionCost.Mul(qty)
	feeAmount := lineTotal.Mul(snap.PlatformFeePct).Div(hundred)

	return OrderReportRow{
		OrderID:            o.ID,
		OrderDate:          o.Date,
		DueDate:            o.DueDate,
		CustomerName:       o.Customer.Name,
		Status:             o.Status,
		ProductName:        snap.ProductName,
		Quantity:           it.Quantity,
		UnitPrice:          snap.SellingPrice,
		LineTotal:          types.RoundMoney(lineTotal),
		ProductionCostLine: types.RoundMoney(costLine),
		PlatformFeePct:     snap.PlatformFeePct,
		PlatformFeeAmount:  types.RoundMoney(feeAmount),
		ProfitWithFee:      types.RoundMoney(lineTotal.Sub(feeAmount).Sub(costLine)),
		ProfitWithoutFee:   types.RoundMoney(lineTotal.Sub(costLine)),
	}
}
