package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgerbook/internal/domain"
)

// RateRepository implements usecase.RateRepository.
type RateRepository struct {
	pool *pgxpool.Pool
}

// NewRateRepository creates a new RateRepository.
func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

// Create registers a rate. A second rate for the same pair and effective
// date replaces the first.
func (r *RateRepository) Create(ctx context.Context, rate *domain.ExchangeRate) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO exchange_rates (id, org_id, from_currency, to_currency, rate, effective_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (org_id, from_currency, to_currency, effective_date)
		DO UPDATE SET rate = EXCLUDED.rate, created_at = EXCLUDED.created_at`,
		rate.ID,
		rate.OrgID,
		rate.FromCurrency,
		rate.ToCurrency,
		decimalToNumeric(rate.Rate),
		timeToPgDate(rate.EffectiveDate),
		timeToPgTimestamptz(rate.CreatedAt),
	)

	return err
}

// GetAsOf returns the most recent rate effective at or before asOf.
func (r *RateRepository) GetAsOf(ctx context.Context, orgID, from, to string, asOf time.Time) (*domain.ExchangeRate, error) {
	var (
		rate          domain.ExchangeRate
		value         pgtype.Numeric
		effectiveDate pgtype.Date
		createdAt     pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, org_id, from_currency, to_currency, rate, effective_date, created_at
		FROM exchange_rates
		WHERE org_id = $1 AND from_currency = $2 AND to_currency = $3 AND effective_date <= $4
		ORDER BY effective_date DESC
		LIMIT 1`,
		orgID, from, to, timeToPgDate(asOf),
	).Scan(
		&rate.ID,
		&rate.OrgID,
		&rate.FromCurrency,
		&rate.ToCurrency,
		&value,
		&effectiveDate,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRateUnavailable
		}

		return nil, err
	}

	rate.Rate = numericToDecimal(value)
	rate.EffectiveDate = effectiveDate.Time
	rate.CreatedAt = createdAt.Time

	return &rate, nil
}
