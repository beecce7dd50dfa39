package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kitchenledger/internal/domain/order"
	"kitchenledger/internal/domain/reports"
	"kitchenledger/internal/infrastructure/export"
	"kitchenledger/internal/infrastructure/http/v1/dto"
)

// ReportService produces the aggregated views.
type ReportService interface {
	SalesSummary(ctx context.Context, period reports.Period) (*reports.SalesSummary, error)
	OrderReport(ctx context.Context, period reports.Period, status *order.Status) (*reports.OrderReport, error)
}

// ReportsHandler serves /reports.
type ReportsHandler struct {
	*BaseHandler
	service ReportService
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service ReportService) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// SalesSummary handles GET /reports/sales-summary.
func (h *ReportsHandler) SalesSummary(c *gin.Context) {
	var q dto.ReportQuery
	if !h.BindQuery(c, &q) {
		return
	}
	summary, err := h.service.SalesSummary(c.Request.Context(), q.Period())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

// OrderReport handles GET /reports/orders. format=xlsx returns a workbook.
func (h *ReportsHandler) OrderReport(c *gin.Context) {
	var q dto.OrderReportQuery
	if !h.BindQuery(c, &q) {
		return
	}
	report, err := h.service.OrderReport(c.Request.Context(), q.Period(), q.StatusFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	if q.Format != "xlsx" {
		h.OK(c, report)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteOrderReport(&buf, report); err != nil {
		h.Error(c, err)
		return
	}
	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}
