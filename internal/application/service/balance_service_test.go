package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

func TestBalanceService_Balances(t *testing.T) {
	tests := []struct {
		name       string
		employeeID uuid.UUID
		year       int
		month      int
		wantErr    bool
	}{
		{name: "current period", employeeID: uuid.New()},
		{name: "explicit period", employeeID: uuid.New(), year: 2024, month: 3},
		{name: "missing employee", employeeID: uuid.Nil, wantErr: true},
		{name: "bad month", employeeID: uuid.New(), year: 2024, month: 13, wantErr: true},
		{name: "bad year", employeeID: uuid.New(), year: 99, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockBalanceClient{}
			svc := NewBalanceService(client, nil)

			_, err := svc.Balances(context.Background(), tt.employeeID, tt.year, tt.month)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Zero(t, client.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.year, client.gotYear)
			assert.Equal(t, tt.month, client.gotMonth)
		})
	}
}

func TestWriteBalanceReport(t *testing.T) {
	balances := []entity.Balance{
		{
			CategoryName:     "Wellness",
			Year:             2024,
			Month:            3,
			AnnualLimit:      decimal.RequireFromString("1200"),
			AnnualUsed:       decimal.RequireFromString("150.50"),
			AnnualRemaining:  decimal.RequireFromString("1049.50"),
			MonthlyLimit:     decimal.RequireFromString("100"),
			MonthlyUsed:      decimal.RequireFromString("42.5"),
			MonthlyRemaining: decimal.RequireFromString("57.5"),
		},
		{
			CategoryName:     "Learning",
			Year:             2024,
			Month:            3,
			AnnualLimit:      decimal.RequireFromString("500"),
			AnnualRemaining:  decimal.RequireFromString("500"),
			MonthlyLimit:     decimal.RequireFromString("50"),
			MonthlyRemaining: decimal.RequireFromString("50"),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBalanceReport(&buf, balances))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	raw := excelize.Options{RawCellValue: true}
	cell := func(ref string) string {
		v, err := f.GetCellValue(BalanceSheetName, ref, raw)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, []string{BalanceSheetName}, f.GetSheetList())
	assert.Equal(t, "Category", cell("A1"))
	assert.Equal(t, "Monthly Remaining", cell("I1"))
	assert.Equal(t, "Wellness", cell("A2"))
	assert.Equal(t, "2024", cell("B2"))
	assert.Equal(t, "1049.5", cell("F2"))
	assert.Equal(t, "Learning", cell("A3"))
	assert.Equal(t, "Total", cell("A4"))
	assert.Equal(t, "1700", cell("D4"))
	assert.Equal(t, "107.5", cell("I4"))

	style, err := f.GetCellStyle(BalanceSheetName, "D2")
	require.NoError(t, err)
	assert.NotZero(t, style)
}

func TestWriteBalanceReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBalanceReport(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(BalanceSheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Total", v)
}
