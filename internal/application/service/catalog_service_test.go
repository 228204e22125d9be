package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCatalogService_CreateCategory(t *testing.T) {
	full := func() entity.CategoryInput {
		return entity.CategoryInput{
			Name:                 strPtr("  Wellness\t"),
			MaxTransactionAmount: decPtr("100"),
			AnnualLimit:          decPtr("1200"),
			MonthlyLimit:         decPtr("0"),
		}
	}

	tests := []struct {
		name      string
		input     func() entity.CategoryInput
		wantErr   bool
		wantName  string
		wantCalls int
	}{
		{
			name:      "valid input is sanitized",
			input:     full,
			wantName:  "Wellness",
			wantCalls: 1,
		},
		{
			name: "missing limit",
			input: func() entity.CategoryInput {
				in := full()
				in.MonthlyLimit = nil
				return in
			},
			wantErr: true,
		},
		{
			name: "blank name",
			input: func() entity.CategoryInput {
				in := full()
				in.Name = strPtr("   ")
				return in
			},
			wantErr: true,
		},
		{
			name: "negative limit",
			input: func() entity.CategoryInput {
				in := full()
				in.AnnualLimit = decPtr("-0.01")
				return in
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockCatalogClient{}
			svc := NewCatalogService(client, nil)

			got, err := svc.CreateCategory(context.Background(), tt.input())
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Zero(t, client.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantCalls, client.calls)
		})
	}
}

func TestCatalogService_UpdateCategoryPartial(t *testing.T) {
	id := uuid.New()
	var sent entity.CategoryInput
	client := &mockCatalogClient{
		updateFunc: func(ctx context.Context, gotID uuid.UUID, in entity.CategoryInput) (entity.Category, error) {
			assert.Equal(t, id, gotID)
			sent = in
			return entity.Category{ID: gotID}, nil
		},
	}
	svc := NewCatalogService(client, nil)

	_, err := svc.UpdateCategory(context.Background(), id, entity.CategoryInput{MonthlyLimit: decPtr("50")})
	require.NoError(t, err)
	assert.Nil(t, sent.Name)
	assert.Nil(t, sent.AnnualLimit)
	require.NotNil(t, sent.MonthlyLimit)
	assert.Equal(t, "50", sent.MonthlyLimit.String())

	_, err = svc.UpdateCategory(context.Background(), uuid.Nil, entity.CategoryInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCatalogService_AddKeyword(t *testing.T) {
	client := &mockCatalogClient{}
	svc := NewCatalogService(client, nil)

	kw, err := svc.AddKeyword(context.Background(), uuid.New(), "  gym\n")
	require.NoError(t, err)
	assert.Equal(t, "gym", kw.Keyword)

	_, err = svc.AddKeyword(context.Background(), uuid.New(), " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 1, client.calls)
}

func TestCatalogService_WrapsEngineErrors(t *testing.T) {
	engineErr := errors.New("engine down")
	svc := NewCatalogService(&mockCatalogClient{listErr: engineErr}, nil)

	_, err := svc.ListCategories(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, engineErr)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}
