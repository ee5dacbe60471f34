package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgerbook/internal/domain"
)

// DimensionRepository implements usecase.DimensionRepository.
type DimensionRepository struct {
	pool *pgxpool.Pool
}

// NewDimensionRepository creates a new DimensionRepository.
func NewDimensionRepository(pool *pgxpool.Pool) *DimensionRepository {
	return &DimensionRepository{pool: pool}
}

// CreateDimension registers a new analytic axis.
func (r *DimensionRepository) CreateDimension(ctx context.Context, dim *domain.Dimension) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO dimensions (id, org_id, name, created_at)
		VALUES ($1, $2, $3, $4)`,
		dim.ID, dim.OrgID, dim.Name, timeToPgTimestamptz(dim.CreatedAt),
	)

	return err
}

// CreateValue registers a permitted value of a dimension.
func (r *DimensionRepository) CreateValue(ctx context.Context, value *domain.DimensionValue) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO dimension_values (id, dimension_id, name, created_at)
		VALUES ($1, $2, $3, $4)`,
		value.ID, value.DimensionID, value.Name, timeToPgTimestamptz(value.CreatedAt),
	)

	return err
}

// GetValue retrieves a dimension value by ID.
func (r *DimensionRepository) GetValue(ctx context.Context, id string) (*domain.DimensionValue, error) {
	var (
		value     domain.DimensionValue
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, dimension_id, name, created_at
		FROM dimension_values
		WHERE id = $1`,
		id,
	).Scan(&value.ID, &value.DimensionID, &value.Name, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDimensionValueNotFound, id)
		}

		return nil, err
	}

	value.CreatedAt = createdAt.Time

	return &value, nil
}

// ListValues lists the values of a dimension in name order.
func (r *DimensionRepository) ListValues(ctx context.Context, dimensionID string) ([]*domain.DimensionValue, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, dimension_id, name, created_at
		FROM dimension_values
		WHERE dimension_id = $1
		ORDER BY name`,
		dimensionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []*domain.DimensionValue
	for rows.Next() {
		var (
			value     domain.DimensionValue
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&value.ID, &value.DimensionID, &value.Name, &createdAt); err != nil {
			return nil, err
		}
		value.CreatedAt = createdAt.Time
		values = append(values, &value)
	}

	return values, rows.Err()
}

// BudgetRepository implements usecase.BudgetRepository.
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository.
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// Create inserts a budget line.
func (r *BudgetRepository) Create(ctx context.Context, line *domain.BudgetLine) error {
	var dimValue *string
	if line.DimensionValueID != "" {
		dimValue = &line.DimensionValueID
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO budget_lines (id, org_id, account_id, dimension_value_id, limit_amount, period_start, period_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		line.ID,
		line.OrgID,
		line.AccountID,
		dimValue,
		decimalToNumeric(line.Limit),
		timeToPgDate(line.PeriodStart),
		timeToPgDate(line.PeriodEnd),
	)

	return err
}

// List lists budget lines of an organization.
func (r *BudgetRepository) List(ctx context.Context, orgID string) ([]*domain.BudgetLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, org_id, account_id, dimension_value_id, limit_amount, period_start, period_end
		FROM budget_lines
		WHERE org_id = $1
		ORDER BY account_id`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*domain.BudgetLine
	for rows.Next() {
		var (
			line        domain.BudgetLine
			dimValue    *string
			limit       pgtype.Numeric
			periodStart pgtype.Date
			periodEnd   pgtype.Date
		)
		if err := rows.Scan(&line.ID, &line.OrgID, &line.AccountID, &dimValue, &limit, &periodStart, &periodEnd); err != nil {
			return nil, err
		}
		if dimValue != nil {
			line.DimensionValueID = *dimValue
		}
		line.Limit = numericToDecimal(limit)
		line.PeriodStart = periodStart.Time
		line.PeriodEnd = periodEnd.Time
		lines = append(lines, &line)
	}

	return lines, rows.Err()
}
