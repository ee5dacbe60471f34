package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/domain"
)

// ReportUseCase computes read-only projections over posted entries for the
// reporting layer. It never mutates ledger state and never sees a
// partially-applied posting.
type ReportUseCase struct {
	reportRepo  ReportRepository
	budgetRepo  BudgetRepository
	accountRepo AccountRepository
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(reportRepo ReportRepository, budgetRepo BudgetRepository, accountRepo AccountRepository) *ReportUseCase {
	return &ReportUseCase{
		reportRepo:  reportRepo,
		budgetRepo:  budgetRepo,
		accountRepo: accountRepo,
	}
}

// TrialBalance holds per-account posted debit/credit totals. A consistent
// ledger has equal grand totals.
type TrialBalance struct {
	Rows        []AccountTotalsRow
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
	Balanced    bool
}

// TrialBalance computes the trial balance over a date range.
func (uc *ReportUseCase) TrialBalance(ctx context.Context, orgID string, from, to time.Time) (*TrialBalance, error) {
	rows, err := uc.reportRepo.AccountTotals(ctx, orgID, from, to)
	if err != nil {
		return nil, err
	}

	tb := &TrialBalance{
		Rows:        rows,
		DebitTotal:  decimal.Zero,
		CreditTotal: decimal.Zero,
	}

	for _, row := range rows {
		tb.DebitTotal = tb.DebitTotal.Add(row.DebitTotal)
		tb.CreditTotal = tb.CreditTotal.Add(row.CreditTotal)
	}

	tb.Balanced = tb.DebitTotal.Equal(tb.CreditTotal)

	return tb, nil
}

// TypeTotal aggregates net movement per account type (balance sheet and
// income statement groupings).
type TypeTotal struct {
	Type  domain.AccountType
	Total decimal.Decimal
}

// TypeTotals sums net balances per account type over a date range, signed by
// each type's normal balance side.
func (uc *ReportUseCase) TypeTotals(ctx context.Context, orgID string, from, to time.Time) ([]TypeTotal, error) {
	rows, err := uc.reportRepo.AccountTotals(ctx, orgID, from, to)
	if err != nil {
		return nil, err
	}

	byType := map[domain.AccountType]decimal.Decimal{}
	for _, row := range rows {
		net := row.DebitTotal.Sub(row.CreditTotal)
		if row.AccountType.NormalBalance() == domain.SideCredit {
			net = net.Neg()
		}
		byType[row.AccountType] = byType[row.AccountType].Add(net)
	}

	order := []domain.AccountType{
		domain.AccountTypeAsset,
		domain.AccountTypeLiability,
		domain.AccountTypeEquity,
		domain.AccountTypeRevenue,
		domain.AccountTypeExpense,
	}

	totals := make([]TypeTotal, 0, len(byType))
	for _, t := range order {
		if total, ok := byType[t]; ok {
			totals = append(totals, TypeTotal{Type: t, Total: total})
		}
	}

	return totals, nil
}

// DimensionBreakdown aggregates posted entries per value of one dimension.
func (uc *ReportUseCase) DimensionBreakdown(ctx context.Context, orgID, dimensionID string, from, to time.Time) ([]DimensionTotalsRow, error) {
	return uc.reportRepo.DimensionTotals(ctx, orgID, dimensionID, from, to)
}

// BudgetVariance is budget-vs-actual for one budget line.
type BudgetVariance struct {
	Line     domain.BudgetLine
	Actual   decimal.Decimal
	Variance decimal.Decimal
}

// BudgetVariances computes actual spend and variance for every budget line
// of an organization.
func (uc *ReportUseCase) BudgetVariances(ctx context.Context, orgID string) ([]BudgetVariance, error) {
	lines, err := uc.budgetRepo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}

	variances := make([]BudgetVariance, 0, len(lines))
	for _, line := range lines {
		actual, err := uc.reportRepo.ActualSpend(ctx, orgID, line.AccountID, line.DimensionValueID, line.PeriodStart, line.PeriodEnd)
		if err != nil {
			return nil, err
		}

		variances = append(variances, BudgetVariance{
			Line:     *line,
			Actual:   actual,
			Variance: line.Variance(actual),
		})
	}

	return variances, nil
}
