package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/domain"
)

// DimensionUseCase manages reporting dimensions, their values, and budget
// lines scoped to them.
type DimensionUseCase struct {
	dimensionRepo DimensionRepository
	budgetRepo    BudgetRepository
	accountRepo   AccountRepository
	idGen         IDGenerator
}

// NewDimensionUseCase creates a new DimensionUseCase.
func NewDimensionUseCase(dimensionRepo DimensionRepository, budgetRepo BudgetRepository, accountRepo AccountRepository, idGen IDGenerator) *DimensionUseCase {
	return &DimensionUseCase{
		dimensionRepo: dimensionRepo,
		budgetRepo:    budgetRepo,
		accountRepo:   accountRepo,
		idGen:         idGen,
	}
}

// CreateDimension registers a named dimension for an organization.
func (uc *DimensionUseCase) CreateDimension(ctx context.Context, orgID, name string) (*domain.Dimension, error) {
	if name == "" {
		return nil, fmt.Errorf("dimension name is required")
	}

	dim := &domain.Dimension{
		ID:        uc.idGen.Generate(),
		OrgID:     orgID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.dimensionRepo.CreateDimension(ctx, dim); err != nil {
		return nil, fmt.Errorf("creating dimension: %w", err)
	}

	return dim, nil
}

// CreateValue adds a permitted value to a dimension.
func (uc *DimensionUseCase) CreateValue(ctx context.Context, dimensionID, name string) (*domain.DimensionValue, error) {
	if name == "" {
		return nil, fmt.Errorf("dimension value name is required")
	}

	val := &domain.DimensionValue{
		ID:          uc.idGen.Generate(),
		DimensionID: dimensionID,
		Name:        name,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.dimensionRepo.CreateValue(ctx, val); err != nil {
		return nil, fmt.Errorf("creating dimension value: %w", err)
	}

	return val, nil
}

// ListValues lists the values of a dimension.
func (uc *DimensionUseCase) ListValues(ctx context.Context, dimensionID string) ([]*domain.DimensionValue, error) {
	return uc.dimensionRepo.ListValues(ctx, dimensionID)
}

// CreateBudgetLineInput describes a new budget line.
type CreateBudgetLineInput struct {
	OrgID            string
	AccountID        string
	DimensionValueID string
	Limit            decimal.Decimal
	PeriodStart      time.Time
	PeriodEnd        time.Time
}

// CreateBudgetLine creates a spend limit for an account, optionally scoped
// to a dimension value.
func (uc *DimensionUseCase) CreateBudgetLine(ctx context.Context, input CreateBudgetLineInput) (*domain.BudgetLine, error) {
	if !input.Limit.IsPositive() {
		return nil, fmt.Errorf("budget limit must be positive: %w", domain.ErrInvalidAmount)
	}
	if input.PeriodEnd.Before(input.PeriodStart) {
		return nil, fmt.Errorf("budget period end precedes start")
	}

	if _, err := uc.accountRepo.GetByID(ctx, input.OrgID, input.AccountID); err != nil {
		return nil, err
	}
	if input.DimensionValueID != "" {
		if _, err := uc.dimensionRepo.GetValue(ctx, input.DimensionValueID); err != nil {
			return nil, err
		}
	}

	line := &domain.BudgetLine{
		ID:               uc.idGen.Generate(),
		OrgID:            input.OrgID,
		AccountID:        input.AccountID,
		DimensionValueID: input.DimensionValueID,
		Limit:            domain.RoundWorking(input.Limit),
		PeriodStart:      input.PeriodStart,
		PeriodEnd:        input.PeriodEnd,
	}
	if err := uc.budgetRepo.Create(ctx, line); err != nil {
		return nil, fmt.Errorf("creating budget line: %w", err)
	}

	return line, nil
}
