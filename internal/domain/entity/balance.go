package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is an employee's allowance for one category over a month and year.
type Balance struct {
	CategoryID       uuid.UUID       `json:"category_id"`
	CategoryName     string          `json:"category_name"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	AnnualLimit      decimal.Decimal `json:"annual_limit"`
	AnnualUsed       decimal.Decimal `json:"annual_used"`
	AnnualRemaining  decimal.Decimal `json:"annual_remaining"`
	MonthlyLimit     decimal.Decimal `json:"monthly_limit"`
	MonthlyUsed      decimal.Decimal `json:"monthly_used"`
	MonthlyRemaining decimal.Decimal `json:"monthly_remaining"`
}
