package dto

import (
	"time"

	"kitchenledger/internal/domain/order"
	"kitchenledger/internal/domain/reports"
)

// ReportQuery holds the date range shared by all reports.
type ReportQuery struct {
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02" time_utc:"1"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02" time_utc:"1"`
}

func (q *ReportQuery) Period() reports.Period {
	return reports.Period{Start: q.StartDate, End: q.EndDate}
}

// OrderReportQuery adds a status filter and the output format.
type OrderReportQuery struct {
	ReportQuery
	Status string `form:"status" binding:"omitempty,orderstatus"`
	Format string `form:"format" binding:"omitempty,oneof=json xlsx"`
}

func (q *OrderReportQuery) StatusFilter() *order.Status {
	if q.Status == "" {
		return nil
	}
	s := order.Status(q.Status)
	return &s
}
