package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/usecase"
)

// PeriodRepository implements usecase.PeriodRepository.
type PeriodRepository struct {
	pool *pgxpool.Pool
}

// NewPeriodRepository creates a new PeriodRepository.
func NewPeriodRepository(pool *pgxpool.Pool) *PeriodRepository {
	return &PeriodRepository{pool: pool}
}

const periodColumns = `id, org_id, name, start_date, end_date, status, created_at, updated_at`

// CreateBatch inserts a set of periods atomically.
func (r *PeriodRepository) CreateBatch(ctx context.Context, periods []*domain.FiscalPeriod) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, p := range periods {
		if _, err := tx.Exec(ctx, `
			INSERT INTO fiscal_periods (`+periodColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.ID,
			p.OrgID,
			p.Name,
			timeToPgDate(p.StartDate),
			timeToPgDate(p.EndDate),
			string(p.Status),
			timeToPgTimestamptz(p.CreatedAt),
			timeToPgTimestamptz(p.UpdatedAt),
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a period by ID within an organization.
func (r *PeriodRepository) GetByID(ctx context.Context, orgID, id string) (*domain.FiscalPeriod, error) {
	period, err := scanPeriod(r.pool.QueryRow(ctx, `
		SELECT `+periodColumns+`
		FROM fiscal_periods
		WHERE org_id = $1 AND id = $2`,
		orgID, id,
	))
	if err != nil {
		if errors.Is(err, domain.ErrNoOpenPeriod) {
			return nil, domain.ErrPeriodNotFound
		}

		return nil, err
	}

	return period, nil
}

// GetByDate returns the period containing a date.
func (r *PeriodRepository) GetByDate(ctx context.Context, orgID string, date time.Time) (*domain.FiscalPeriod, error) {
	return getPeriodByDate(ctx, r.pool, orgID, date)
}

// GetByDateTx re-reads the period inside a posting transaction so a
// concurrent close is seen before commit.
func (r *PeriodRepository) GetByDateTx(ctx context.Context, tx usecase.Transaction, orgID string, date time.Time) (*domain.FiscalPeriod, error) {
	return getPeriodByDate(ctx, tx.(*Tx).PgxTx(), orgID, date)
}

func getPeriodByDate(ctx context.Context, q dbtx, orgID string, date time.Time) (*domain.FiscalPeriod, error) {
	return scanPeriod(q.QueryRow(ctx, `
		SELECT `+periodColumns+`
		FROM fiscal_periods
		WHERE org_id = $1 AND start_date <= $2 AND end_date >= $2
		ORDER BY start_date
		LIMIT 1`,
		orgID, timeToPgDate(date),
	))
}

// UpdateStatus changes the status of a period.
func (r *PeriodRepository) UpdateStatus(ctx context.Context, orgID, id string, status domain.PeriodStatus, updatedAt time.Time) error {
	return updatePeriodStatus(ctx, r.pool, orgID, id, status, updatedAt)
}

// UpdateStatusTx changes the status of a period inside a database
// transaction.
func (r *PeriodRepository) UpdateStatusTx(ctx context.Context, tx usecase.Transaction, orgID, id string, status domain.PeriodStatus, updatedAt time.Time) error {
	return updatePeriodStatus(ctx, tx.(*Tx).PgxTx(), orgID, id, status, updatedAt)
}

func updatePeriodStatus(ctx context.Context, q dbtx, orgID, id string, status domain.PeriodStatus, updatedAt time.Time) error {
	tag, err := q.Exec(ctx, `
		UPDATE fiscal_periods
		SET status = $3, updated_at = $4
		WHERE org_id = $1 AND id = $2`,
		orgID, id, string(status), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPeriodNotFound
	}

	return nil
}

// List lists periods of an organization in start-date order.
func (r *PeriodRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*domain.FiscalPeriod, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+periodColumns+`
		FROM fiscal_periods
		WHERE org_id = $1
		ORDER BY start_date
		LIMIT $2 OFFSET $3`,
		orgID, int32(limit), int32(offset),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	periods := make([]*domain.FiscalPeriod, 0, limit)
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}

	return periods, rows.Err()
}

func scanPeriod(row pgx.Row) (*domain.FiscalPeriod, error) {
	var (
		period    domain.FiscalPeriod
		startDate pgtype.Date
		endDate   pgtype.Date
		status    string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&period.ID,
		&period.OrgID,
		&period.Name,
		&startDate,
		&endDate,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoOpenPeriod
		}

		return nil, err
	}

	period.StartDate = startDate.Time
	period.EndDate = endDate.Time
	period.Status = domain.PeriodStatus(status)
	period.CreatedAt = createdAt.Time
	period.UpdatedAt = updatedAt.Time

	return &period, nil
}
