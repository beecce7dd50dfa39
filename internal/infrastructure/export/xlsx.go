// Package export renders reports as spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"kitchenledger/internal/domain/reports"
)

// ContentTypeXLSX is the MIME type of the workbook written by WriteOrderReport.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const orderSheet = "Orders"

var orderHeaders = []string{
	"Order ID", "Order Date", "Due Date", "Customer", "Status", "Product",
	"Quantity", "Unit Price", "Line Total", "Production Cost",
	"Platform Fee %", "Platform Fee", "Profit (with fee)", "Profit (without fee)",
}

// WriteOrderReport writes the report as a single-sheet workbook.
// Money columns are numeric cells so the sheet can total them.
func WriteOrderReport(w io.Writer, report *reports.OrderReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", orderSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range orderHeaders {
		if err := setCell(f, i+1, 1, h); err != nil {
			return err
		}
	}

	for r, row := range report.Rows {
		values := []any{
			row.OrderID.String(),
			row.OrderDate.Format("2006-01-02"),
			row.DueDate.Format("2006-01-02"),
			row.CustomerName,
			string(row.Status),
			row.ProductName,
			row.Quantity,
			row.UnitPrice.InexactFloat64(),
			row.LineTotal.InexactFloat64(),
			row.ProductionCostLine.InexactFloat64(),
			row.PlatformFeePct.InexactFloat64(),
			row.PlatformFeeAmount.InexactFloat64(),
			row.ProfitWithFee.InexactFloat64(),
			row.ProfitWithoutFee.InexactFloat64(),
		}
		for c, v := range values {
			if err := setCell(f, c+1, r+2, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetPanes(orderSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(orderSheet, cell, value)
}
