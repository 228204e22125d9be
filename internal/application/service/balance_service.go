package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/garyjia/benefit-reimbursement/internal/application/port"
	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
	"github.com/garyjia/benefit-reimbursement/pkg/utils"
)

// BalanceService reads an employee's remaining allowances
type BalanceService interface {
	// Balances returns one entry per category. Zero year or month lets the
	// engine pick the current period.
	Balances(ctx context.Context, employeeID uuid.UUID, year, month int) ([]entity.Balance, error)
}

type balanceServiceImpl struct {
	client port.BalanceClient
	logger Logger
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(client port.BalanceClient, logger Logger) BalanceService {
	return &balanceServiceImpl{
		client: client,
		logger: orNop(logger),
	}
}

func (s *balanceServiceImpl) Balances(ctx context.Context, employeeID uuid.UUID, year, month int) ([]entity.Balance, error) {
	if employeeID == uuid.Nil {
		return nil, fmt.Errorf("%w: employee id is required", ErrInvalidInput)
	}
	if err := utils.ValidatePeriod(year, month); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	balances, err := s.client.EmployeeBalances(ctx, employeeID, year, month)
	if err != nil {
		s.logger.Error("Failed to fetch balances", "error", err,
			"employee_id", employeeID.String(), "year", year, "month", month)
		return nil, fmt.Errorf("fetch balances: %w", err)
	}
	return balances, nil
}
