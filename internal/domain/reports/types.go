// Package reports aggregates completed orders into sales and profit figures.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain/order"
)

// Period is an inclusive date range on order date. Either bound may be nil.
// An End given as a bare date covers that whole day.
type Period struct {
	Start *time.Time
	End   *time.Time
}

func (p Period) normalize() (Period, error) {
	if p.End != nil {
		end := *p.End
		if end.Hour() == 0 && end.Minute() == 0 && end.Second() == 0 && end.Nanosecond() == 0 {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		p.End = &end
	}
	if p.Start != nil && p.End != nil && p.Start.After(*p.End) {
		return p, apperror.NewInvalidInput("startDate must not be after endDate").
			WithDetail("startDate", p.Start.Format(time.RFC3339)).
			WithDetail("endDate", p.End.Format(time.RFC3339))
	}
	return p, nil
}

func (p Period) filter(status *order.Status) order.ListFilter {
	return order.ListFilter{Status: status, From: p.Start, To: p.End}
}

// SalesSummary totals Done orders in a period.
type SalesSummary struct {
	TotalSales          types.Money `json:"totalSales"`
	TotalProductionCost types.Money `json:"totalProductionCost"`
	TotalFixedCosts     types.Money `json:"totalFixedCosts"`
	NetProfit           types.Money `json:"netProfit"`
	OrderCount          int         `json:"orderCount"`
	Start               *time.Time  `json:"startDate,omitempty"`
	End                 *time.Time  `json:"endDate,omitempty"`
}

// OrderReportRow is one ordered item with its profit breakdown.
type OrderReportRow struct {
	OrderID            id.ID           `json:"orderId"`
	OrderDate          time.Time       `json:"orderDate"`
	DueDate            time.Time       `json:"dueDate"`
	CustomerName       string          `json:"customerName"`
	Status             order.Status    `json:"status"`
	ProductName        string          `json:"productName"`
	Quantity           int             `json:"quantity"`
	UnitPrice          types.Money     `json:"unitPrice"`
	LineTotal          types.Money     `json:"lineTotal"`
	ProductionCostLine types.Money     `json:"productionCostLine"`
	PlatformFeePct     decimal.Decimal `json:"platformFeePct"`
	PlatformFeeAmount  types.Money     `json:"platformFeeAmount"`
	ProfitWithFee      types.Money     `json:"profitWithFee"`
	ProfitWithoutFee   types.Money     `json:"profitWithoutFee"`
}

// OrderReport is the tabular export of a period.
type OrderReport struct {
	Rows  []OrderReportRow `json:"rows"`
	Start *time.Time       `json:"startDate,omitempty"`
	End   *time.Time       `json:"endDate,omitempty"`
}
