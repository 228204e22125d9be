package service

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

// BalanceSheetName is the worksheet written by WriteBalanceReport
const BalanceSheetName = "Balances"

const currencyNumFmt = `"$"#,##0.00`

var balanceHeaders = []string{
	"Category", "Year", "Month",
	"Annual Limit", "Annual Used", "Annual Remaining",
	"Monthly Limit", "Monthly Used", "Monthly Remaining",
}

// WriteBalanceReport writes balances as an .xlsx workbook: a header row, one
// row per category and a totals row summing the money columns.
func WriteBalanceReport(w io.Writer, balances []entity.Balance) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), BalanceSheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	numFmt := currencyNumFmt
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("failed to create currency style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return fmt.Errorf("failed to create totals style: %w", err)
	}

	for i, h := range balanceHeaders {
		if err := setCell(f, i+1, 1, h); err != nil {
			return err
		}
	}
	if err := styleRow(f, 1, 1, len(balanceHeaders), headerStyle); err != nil {
		return err
	}

	totals := make([]decimal.Decimal, 6)
	for i, b := range balances {
		row := i + 2
		money := []decimal.Decimal{
			b.AnnualLimit, b.AnnualUsed, b.AnnualRemaining,
			b.MonthlyLimit, b.MonthlyUsed, b.MonthlyRemaining,
		}

		if err := setCell(f, 1, row, b.CategoryName); err != nil {
			return err
		}
		if err := setCell(f, 2, row, b.Year); err != nil {
			return err
		}
		if err := setCell(f, 3, row, b.Month); err != nil {
			return err
		}
		for j, amount := range money {
			if err := setMoney(f, 4+j, row, amount); err != nil {
				return err
			}
			totals[j] = totals[j].Add(amount)
		}
		if err := styleRow(f, row, 4, len(balanceHeaders), moneyStyle); err != nil {
			return err
		}
	}

	totalRow := len(balances) + 2
	if err := setCell(f, 1, totalRow, "Total"); err != nil {
		return err
	}
	for j, amount := range totals {
		if err := setMoney(f, 4+j, totalRow, amount); err != nil {
			return err
		}
	}
	if err := styleRow(f, totalRow, 1, len(balanceHeaders), totalStyle); err != nil {
		return err
	}

	if err := f.SetColWidth(BalanceSheetName, "A", "A", 24); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(BalanceSheetName, "D", "I", 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(BalanceSheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}

func setMoney(f *excelize.File, col, row int, amount decimal.Decimal) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellFloat(BalanceSheetName, cell, amount.InexactFloat64(), -1, 64); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}

func styleRow(f *excelize.File, row, fromCol, toCol, style int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(BalanceSheetName, from, to, style)
}
