package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Keyword is a classification hint attached to a benefit category.
type Keyword struct {
	ID      uuid.UUID `json:"id"`
	Keyword string    `json:"keyword"`
}

// Category is a benefit category with its spending limits.
type Category struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	MaxTransactionAmount decimal.Decimal `json:"max_transaction_amount"`
	AnnualLimit          decimal.Decimal `json:"annual_limit"`
	MonthlyLimit         decimal.Decimal `json:"monthly_limit"`
	Keywords             []Keyword       `json:"keywords"`
}

// CategoryInput carries create and update payloads. On update, nil fields are
// left unchanged by the engine.
type CategoryInput struct {
	Name                 *string          `json:"name,omitempty"`
	MaxTransactionAmount *decimal.Decimal `json:"max_transaction_amount,omitempty"`
	AnnualLimit          *decimal.Decimal `json:"annual_limit,omitempty"`
	MonthlyLimit         *decimal.Decimal `json:"monthly_limit,omitempty"`
}
