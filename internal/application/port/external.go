package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

// CatalogClient manages benefit categories and their keywords on the engine
type CatalogClient interface {
	ListCategories(ctx context.Context) ([]entity.Category, error)
	CreateCategory(ctx context.Context, in entity.CategoryInput) (entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in entity.CategoryInput) (entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListKeywords(ctx context.Context, categoryID uuid.UUID) ([]entity.Keyword, error)
	AddKeyword(ctx context.Context, categoryID uuid.UUID, keyword string) (entity.Keyword, error)
	DeleteKeyword(ctx context.Context, categoryID, keywordID uuid.UUID) error
}

// BalanceClient reads per-category allowances for an employee
type BalanceClient interface {
	EmployeeBalances(ctx context.Context, employeeID uuid.UUID, year, month int) ([]entity.Balance, error)
}

// OutcomeReader re-fetches a submitted reimbursement by request id
type OutcomeReader interface {
	GetReimbursement(ctx context.Context, requestID string) (entity.Outcome, error)
}

// MessageSender posts a plain text chat message and returns its id
type MessageSender interface {
	SendText(ctx context.Context, receiveID, text string) (string, error)
}
