package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/usecase"
)

// ReportRepository implements usecase.ReportRepository with aggregate queries
// over posted entries. Reads run outside posting transactions and never take
// row locks.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// dateRangeClause appends optional from/to bounds on t.date. Zero times mean
// unbounded.
func dateRangeArgs(from, to time.Time, args []any) (string, []any) {
	clause := ""
	if !from.IsZero() {
		args = append(args, timeToPgDate(from))
		clause += " AND t.date >= $" + strconv.Itoa(len(args))
	}
	if !to.IsZero() {
		args = append(args, timeToPgDate(to))
		clause += " AND t.date <= $" + strconv.Itoa(len(args))
	}
	return clause, args
}

// AccountTotals sums posted debits and credits per account over a date range.
func (r *ReportRepository) AccountTotals(ctx context.Context, orgID string, from, to time.Time) ([]usecase.AccountTotalsRow, error) {
	args := []any{orgID}
	clause, args := dateRangeArgs(from, to, args)

	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.code, a.name, a.type,
			COALESCE(SUM(e.debit), 0), COALESCE(SUM(e.credit), 0)
		FROM entries e
		JOIN transactions t ON t.id = e.transaction_id
		JOIN accounts a ON a.id = e.account_id
		WHERE t.org_id = $1 AND t.status = 'posted'`+clause+`
		GROUP BY a.id, a.code, a.name, a.type
		ORDER BY a.code`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []usecase.AccountTotalsRow
	for rows.Next() {
		var (
			row     usecase.AccountTotalsRow
			accType string
			debit   pgtype.Numeric
			credit  pgtype.Numeric
		)
		if err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName, &accType, &debit, &credit); err != nil {
			return nil, err
		}
		row.AccountType = domain.AccountType(accType)
		row.DebitTotal = numericToDecimal(debit)
		row.CreditTotal = numericToDecimal(credit)
		totals = append(totals, row)
	}

	return totals, rows.Err()
}

// DimensionTotals sums posted debits and credits per value of one dimension.
func (r *ReportRepository) DimensionTotals(ctx context.Context, orgID, dimensionID string, from, to time.Time) ([]usecase.DimensionTotalsRow, error) {
	args := []any{orgID, dimensionID}
	clause, args := dateRangeArgs(from, to, args)

	rows, err := r.pool.Query(ctx, `
		SELECT dv.id, dv.name,
			COALESCE(SUM(e.debit), 0), COALESCE(SUM(e.credit), 0)
		FROM entries e
		JOIN transactions t ON t.id = e.transaction_id
		JOIN dimension_values dv ON dv.id = ANY(e.dimension_value_ids)
		WHERE t.org_id = $1 AND t.status = 'posted' AND dv.dimension_id = $2`+clause+`
		GROUP BY dv.id, dv.name
		ORDER BY dv.id`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []usecase.DimensionTotalsRow
	for rows.Next() {
		var (
			row    usecase.DimensionTotalsRow
			debit  pgtype.Numeric
			credit pgtype.Numeric
		)
		if err := rows.Scan(&row.DimensionValueID, &row.DimensionValue, &debit, &credit); err != nil {
			return nil, err
		}
		row.DebitTotal = numericToDecimal(debit)
		row.CreditTotal = numericToDecimal(credit)
		totals = append(totals, row)
	}

	return totals, rows.Err()
}

// ActualSpend sums posted net debits for an account, optionally narrowed to
// a dimension value.
func (r *ReportRepository) ActualSpend(ctx context.Context, orgID, accountID, dimensionValueID string, from, to time.Time) (decimal.Decimal, error) {
	args := []any{orgID, accountID}
	dimClause := ""
	if dimensionValueID != "" {
		args = append(args, dimensionValueID)
		dimClause = " AND $" + strconv.Itoa(len(args)) + " = ANY(e.dimension_value_ids)"
	}
	clause, args := dateRangeArgs(from, to, args)

	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(e.debit - e.credit), 0)
		FROM entries e
		JOIN transactions t ON t.id = e.transaction_id
		WHERE t.org_id = $1 AND t.status = 'posted' AND e.account_id = $2`+dimClause+clause,
		args...,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// BalanceAsOf reconstructs an account balance from posted entries up to and
// including asOf, signed by the account's normal balance side.
func (r *ReportRepository) BalanceAsOf(ctx context.Context, orgID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	var accType string
	err := r.pool.QueryRow(ctx, `
		SELECT type FROM accounts WHERE org_id = $1 AND id = $2`,
		orgID, accountID,
	).Scan(&accType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrAccountNotFound
		}

		return decimal.Zero, err
	}

	var (
		debit  pgtype.Numeric
		credit pgtype.Numeric
	)
	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(e.debit), 0), COALESCE(SUM(e.credit), 0)
		FROM entries e
		JOIN transactions t ON t.id = e.transaction_id
		WHERE e.account_id = $1 AND t.status = 'posted' AND t.date <= $2`,
		accountID, timeToPgDate(asOf),
	).Scan(&debit, &credit)
	if err != nil {
		return decimal.Zero, err
	}

	account := domain.Account{Type: domain.AccountType(accType)}

	return account.PostingDelta(numericToDecimal(debit), numericToDecimal(credit)), nil
}
