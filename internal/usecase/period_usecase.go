package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/ledgerbook/internal/domain"
)

// PeriodUseCase is the fiscal period guard: bulk period generation and
// status management.
type PeriodUseCase struct {
	txManager  TransactionManager
	periodRepo PeriodRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
}

// NewPeriodUseCase creates a new PeriodUseCase.
func NewPeriodUseCase(txManager TransactionManager, periodRepo PeriodRepository, outboxRepo OutboxRepository, idGen IDGenerator) *PeriodUseCase {
	return &PeriodUseCase{
		txManager:  txManager,
		periodRepo: periodRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
	}
}

// CreateFiscalYearInput represents input for generating a fiscal year.
type CreateFiscalYearInput struct {
	OrgID string
	Name  string
	Start time.Time
	// IncludeAdjustmentPeriod appends a thirteenth one-day period after the
	// last month for year-end adjustment entries.
	IncludeAdjustmentPeriod bool
}

// CreateFiscalYear generates 12 monthly periods (13 with the adjustment
// period), each beginning open. The periods never overlap: with an
// adjustment period, the last month ends one day early and the adjustment
// period owns the year's final day.
func (uc *PeriodUseCase) CreateFiscalYear(ctx context.Context, input CreateFiscalYearInput) ([]*domain.FiscalPeriod, error) {
	now := time.Now().UTC()
	start := time.Date(input.Start.Year(), input.Start.Month(), 1, 0, 0, 0, 0, time.UTC)

	count := MonthsPerFiscalYear
	if input.IncludeAdjustmentPeriod {
		count++
	}

	periods := make([]*domain.FiscalPeriod, 0, count)
	for i := 0; i < MonthsPerFiscalYear; i++ {
		pStart := start.AddDate(0, i, 0)
		pEnd := pStart.AddDate(0, 1, -1)

		// The adjustment period takes the year's last day for itself, so
		// every date resolves to exactly one period.
		if input.IncludeAdjustmentPeriod && i == MonthsPerFiscalYear-1 {
			pEnd = pEnd.AddDate(0, 0, -1)
		}

		periods = append(periods, &domain.FiscalPeriod{
			ID:        uc.idGen.Generate(),
			OrgID:     input.OrgID,
			Name:      fmt.Sprintf("%s %s", input.Name, pStart.Format("2006-01")),
			StartDate: pStart,
			EndDate:   pEnd,
			Status:    domain.PeriodStatusOpen,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if input.IncludeAdjustmentPeriod {
		adjDay := start.AddDate(1, 0, -1)
		periods = append(periods, &domain.FiscalPeriod{
			ID:        uc.idGen.Generate(),
			OrgID:     input.OrgID,
			Name:      fmt.Sprintf("%s ADJ", input.Name),
			StartDate: adjDay,
			EndDate:   adjDay,
			Status:    domain.PeriodStatusOpen,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := uc.periodRepo.CreateBatch(ctx, periods); err != nil {
		return nil, err
	}

	return periods, nil
}

// SetPeriodStatusInput represents input for changing a period status.
type SetPeriodStatusInput struct {
	OrgID    string
	PeriodID string
	Status   domain.PeriodStatus
	// AdminReopen marks the privileged reopen of a closed or locked period.
	AdminReopen bool
}

// SetPeriodStatus transitions a period between open, closed and locked.
// Reopening a closed or locked period requires the explicit admin flag.
func (uc *PeriodUseCase) SetPeriodStatus(ctx context.Context, input SetPeriodStatusInput) (*domain.FiscalPeriod, error) {
	if !input.Status.Valid() {
		return nil, fmt.Errorf("unknown period status %q", input.Status)
	}

	period, err := uc.periodRepo.GetByID(ctx, input.OrgID, input.PeriodID)
	if err != nil {
		return nil, err
	}

	if err := period.ValidateStatusChange(input.Status, input.AdminReopen); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := uc.periodRepo.UpdateStatusTx(ctx, tx, input.OrgID, input.PeriodID, input.Status, now); err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   period.ID,
		AggregateType: domain.AggregateTypePeriod,
		EventType:     domain.EventTypePeriodStatusSet,
		Payload: map[string]any{
			"period_id": period.ID,
			"org_id":    period.OrgID,
			"status":    string(input.Status),
		},
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	period.Status = input.Status
	period.UpdatedAt = now

	return period, nil
}

// PeriodForDate returns the period containing a date.
func (uc *PeriodUseCase) PeriodForDate(ctx context.Context, orgID string, date time.Time) (*domain.FiscalPeriod, error) {
	return uc.periodRepo.GetByDate(ctx, orgID, date)
}

// ListPeriods lists periods for an organization in start-date order.
func (uc *PeriodUseCase) ListPeriods(ctx context.Context, orgID string, limit, offset int) ([]*domain.FiscalPeriod, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return uc.periodRepo.List(ctx, orgID, limit, offset)
}
