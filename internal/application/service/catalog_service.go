package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garyjia/benefit-reimbursement/internal/application/port"
	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
	"github.com/garyjia/benefit-reimbursement/pkg/utils"
)

// ErrInvalidInput wraps every validation failure raised before calling the engine
var ErrInvalidInput = errors.New("invalid input")

// CatalogService manages benefit categories and their classification keywords
type CatalogService interface {
	ListCategories(ctx context.Context) ([]entity.Category, error)
	CreateCategory(ctx context.Context, in entity.CategoryInput) (entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in entity.CategoryInput) (entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListKeywords(ctx context.Context, categoryID uuid.UUID) ([]entity.Keyword, error)
	AddKeyword(ctx context.Context, categoryID uuid.UUID, keyword string) (entity.Keyword, error)
	DeleteKeyword(ctx context.Context, categoryID, keywordID uuid.UUID) error
}

type catalogServiceImpl struct {
	client port.CatalogClient
	logger Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(client port.CatalogClient, logger Logger) CatalogService {
	return &catalogServiceImpl{
		client: client,
		logger: orNop(logger),
	}
}

func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.client.ListCategories(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", "error", err)
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory requires a name and all three limits
func (s *catalogServiceImpl) CreateCategory(ctx context.Context, in entity.CategoryInput) (entity.Category, error) {
	if in.Name == nil || in.MaxTransactionAmount == nil || in.AnnualLimit == nil || in.MonthlyLimit == nil {
		return entity.Category{}, fmt.Errorf("%w: name, max_transaction_amount, annual_limit and monthly_limit are required", ErrInvalidInput)
	}
	in, err := normalizeCategory(in)
	if err != nil {
		return entity.Category{}, err
	}

	category, err := s.client.CreateCategory(ctx, in)
	if err != nil {
		s.logger.Error("Failed to create category", "error", err, "name", *in.Name)
		return entity.Category{}, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info("Category created", "category_id", category.ID.String(), "name", category.Name)
	return category, nil
}

// UpdateCategory sends only the fields that are set
func (s *catalogServiceImpl) UpdateCategory(ctx context.Context, id uuid.UUID, in entity.CategoryInput) (entity.Category, error) {
	if id == uuid.Nil {
		return entity.Category{}, fmt.Errorf("%w: category id is required", ErrInvalidInput)
	}
	in, err := normalizeCategory(in)
	if err != nil {
		return entity.Category{}, err
	}

	category, err := s.client.UpdateCategory(ctx, id, in)
	if err != nil {
		s.logger.Error("Failed to update category", "error", err, "category_id", id.String())
		return entity.Category{}, fmt.Errorf("update category: %w", err)
	}

	s.logger.Info("Category updated", "category_id", id.String())
	return category, nil
}

func (s *catalogServiceImpl) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: category id is required", ErrInvalidInput)
	}
	if err := s.client.DeleteCategory(ctx, id); err != nil {
		s.logger.Error("Failed to delete category", "error", err, "category_id", id.String())
		return fmt.Errorf("delete category: %w", err)
	}
	s.logger.Info("Category deleted", "category_id", id.String())
	return nil
}

func (s *catalogServiceImpl) ListKeywords(ctx context.Context, categoryID uuid.UUID) ([]entity.Keyword, error) {
	keywords, err := s.client.ListKeywords(ctx, categoryID)
	if err != nil {
		s.logger.Error("Failed to list keywords", "error", err, "category_id", categoryID.String())
		return nil, fmt.Errorf("list keywords: %w", err)
	}
	return keywords, nil
}

func (s *catalogServiceImpl) AddKeyword(ctx context.Context, categoryID uuid.UUID, keyword string) (entity.Keyword, error) {
	keyword = utils.SanitizeString(keyword)
	if err := utils.RequireText("keyword", keyword); err != nil {
		return entity.Keyword{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	kw, err := s.client.AddKeyword(ctx, categoryID, keyword)
	if err != nil {
		s.logger.Error("Failed to add keyword", "error", err, "category_id", categoryID.String(), "keyword", keyword)
		return entity.Keyword{}, fmt.Errorf("add keyword: %w", err)
	}

	s.logger.Info("Keyword added", "category_id", categoryID.String(), "keyword", kw.Keyword)
	return kw, nil
}

func (s *catalogServiceImpl) DeleteKeyword(ctx context.Context, categoryID, keywordID uuid.UUID) error {
	if err := s.client.DeleteKeyword(ctx, categoryID, keywordID); err != nil {
		s.logger.Error("Failed to delete keyword", "error", err,
			"category_id", categoryID.String(), "keyword_id", keywordID.String())
		return fmt.Errorf("delete keyword: %w", err)
	}
	return nil
}

func normalizeCategory(in entity.CategoryInput) (entity.CategoryInput, error) {
	if in.Name != nil {
		name := utils.SanitizeString(*in.Name)
		if err := utils.RequireText("name", name); err != nil {
			return in, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		in.Name = &name
	}

	limits := []struct {
		field  string
		amount *decimal.Decimal
	}{
		{"max_transaction_amount", in.MaxTransactionAmount},
		{"annual_limit", in.AnnualLimit},
		{"monthly_limit", in.MonthlyLimit},
	}
	for _, l := range limits {
		if l.amount == nil {
			continue
		}
		if err := utils.ValidateLimit(l.field, *l.amount); err != nil {
			return in, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return in, nil
}
