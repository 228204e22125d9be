package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

type mockCatalogClient struct {
	createFunc func(ctx context.Context, in entity.CategoryInput) (entity.Category, error)
	updateFunc func(ctx context.Context, id uuid.UUID, in entity.CategoryInput) (entity.Category, error)
	addFunc    func(ctx context.Context, categoryID uuid.UUID, keyword string) (entity.Keyword, error)
	listErr    error
	calls      int
}

func (m *mockCatalogClient) ListCategories(ctx context.Context) ([]entity.Category, error) {
	m.calls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return []entity.Category{{ID: uuid.New(), Name: "Wellness"}}, nil
}

func (m *mockCatalogClient) CreateCategory(ctx context.Context, in entity.CategoryInput) (entity.Category, error) {
	m.calls++
	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return entity.Category{ID: uuid.New(), Name: *in.Name}, nil
}

func (m *mockCatalogClient) UpdateCategory(ctx context.Context, id uuid.UUID, in entity.CategoryInput) (entity.Category, error) {
	m.calls++
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, in)
	}
	return entity.Category{ID: id}, nil
}

func (m *mockCatalogClient) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	m.calls++
	return nil
}

func (m *mockCatalogClient) ListKeywords(ctx context.Context, categoryID uuid.UUID) ([]entity.Keyword, error) {
	m.calls++
	return nil, nil
}

func (m *mockCatalogClient) AddKeyword(ctx context.Context, categoryID uuid.UUID, keyword string) (entity.Keyword, error) {
	m.calls++
	if m.addFunc != nil {
		return m.addFunc(ctx, categoryID, keyword)
	}
	return entity.Keyword{ID: uuid.New(), Keyword: keyword}, nil
}

func (m *mockCatalogClient) DeleteKeyword(ctx context.Context, categoryID, keywordID uuid.UUID) error {
	m.calls++
	return nil
}

type mockBalanceClient struct {
	balances []entity.Balance
	err      error
	gotYear  int
	gotMonth int
	calls    int
}

func (m *mockBalanceClient) EmployeeBalances(ctx context.Context, employeeID uuid.UUID, year, month int) ([]entity.Balance, error) {
	m.calls++
	m.gotYear, m.gotMonth = year, month
	return m.balances, m.err
}

type mockJournalRepo struct {
	mu      sync.Mutex
	entries []*entity.JournalEntry
	err     error
}

func (m *mockJournalRepo) Record(ctx context.Context, entry *entity.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockJournalRepo) List(ctx context.Context, limit, offset int) ([]*entity.JournalEntry, error) {
	return m.entries, nil
}

func (m *mockJournalRepo) GetByRequestID(ctx context.Context, requestID string) (*entity.JournalEntry, error) {
	return nil, nil
}

type mockMessageSender struct {
	sendFunc func(ctx context.Context, receiveID, text string) (string, error)
	sent     []string
}

func (m *mockMessageSender) SendText(ctx context.Context, receiveID, text string) (string, error) {
	m.sent = append(m.sent, text)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, receiveID, text)
	}
	return "om_1", nil
}
