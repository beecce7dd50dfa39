package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain/order"
	"kitchenledger/internal/domain/reports"
)

func TestWriteOrderReport(t *testing.T) {
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	report := &reports.OrderReport{Rows: []reports.OrderReportRow{{
		OrderID:            id.New(),
		OrderDate:          day,
		DueDate:            day.AddDate(0, 0, 2),
		CustomerName:       "Ana",
		Status:             order.StatusDone,
		ProductName:        "Cake",
		Quantity:           3,
		UnitPrice:          types.MustMoney("20"),
		LineTotal:          types.MustMoney("60"),
		ProductionCostLine: types.MustMoney("18"),
		PlatformFeePct:     decimal.NewFromInt(10),
		PlatformFeeAmount:  types.MustMoney("6"),
		ProfitWithFee:      types.MustMoney("36"),
		ProfitWithoutFee:   types.MustMoney("42"),
	}}}

	var buf bytes.Buffer
	require.NoError(t, WriteOrderReport(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(orderSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, orderHeaders, rows[0])
	assert.Equal(t, "2024-03-09", rows[1][1])
	assert.Equal(t, "Ana", rows[1][3])
	assert.Equal(t, "Done", rows[1][4])
	assert.Equal(t, "3", rows[1][6])
	assert.Equal(t, "36", rows[1][12])
}

func TestWriteOrderReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrderReport(&buf, &reports.OrderReport{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(orderSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
