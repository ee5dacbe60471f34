package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/infrastructure/metrics"
)

// RateUseCase owns the exchange rate table: date-scoped lookups, base
// currency triangulation, and monetary conversion.
type RateUseCase struct {
	rateRepo     RateRepository
	cache        Cache
	idGen        IDGenerator
	metrics      *metrics.Metrics
	baseCurrency string
}

// NewRateUseCase creates a new RateUseCase. cache may be nil.
func NewRateUseCase(rateRepo RateRepository, cache Cache, idGen IDGenerator, m *metrics.Metrics, baseCurrency string) *RateUseCase {
	return &RateUseCase{
		rateRepo:     rateRepo,
		cache:        cache,
		idGen:        idGen,
		metrics:      m,
		baseCurrency: baseCurrency,
	}
}

// AddRateInput represents input for registering an exchange rate.
type AddRateInput struct {
	OrgID         string
	FromCurrency  string
	ToCurrency    string
	Rate          decimal.Decimal
	EffectiveDate time.Time
}

// AddRate registers a rate effective from a date.
func (uc *RateUseCase) AddRate(ctx context.Context, input AddRateInput) (*domain.ExchangeRate, error) {
	if input.FromCurrency == input.ToCurrency {
		return nil, fmt.Errorf("rate for identical currencies %s", input.FromCurrency)
	}

	if !input.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: rate %s", domain.ErrInvalidAmount, input.Rate)
	}

	rate := &domain.ExchangeRate{
		ID:            uc.idGen.Generate(),
		OrgID:         input.OrgID,
		FromCurrency:  input.FromCurrency,
		ToCurrency:    input.ToCurrency,
		Rate:          input.Rate,
		EffectiveDate: input.EffectiveDate,
		CreatedAt:     time.Now().UTC(),
	}

	if err := uc.rateRepo.Create(ctx, rate); err != nil {
		return nil, err
	}

	return rate, nil
}

// Rate returns the conversion rate from → to as of a date: the most recent
// direct rate effective at or before the date, or a triangulation through the
// base currency at full internal precision. No path yields ErrRateUnavailable.
func (uc *RateUseCase) Rate(ctx context.Context, orgID, from, to string, asOf time.Time) (decimal.Decimal, error) {
	if from == to {
		return decimal.New(1, 0), nil
	}

	cacheKey := fmt.Sprintf("rate:%s:%s:%s:%s", orgID, from, to, asOf.Format(time.DateOnly))
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, cacheKey); err == nil {
			if rate, perr := decimal.NewFromString(cached); perr == nil {
				if uc.metrics != nil {
					uc.metrics.RateCacheHits.Inc()
				}
				return rate, nil
			}
		}
	}

	rate, err := uc.lookup(ctx, orgID, from, to, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	if uc.cache != nil {
		// Best effort; a stale or missing cache entry only costs a re-read.
		_ = uc.cache.Set(ctx, cacheKey, rate.String(), RateCacheTTL)
	}

	return rate, nil
}

func (uc *RateUseCase) lookup(ctx context.Context, orgID, from, to string, asOf time.Time) (decimal.Decimal, error) {
	direct, err := uc.rateRepo.GetAsOf(ctx, orgID, from, to, asOf)
	if err == nil {
		return direct.Rate, nil
	}
	if !errors.Is(err, domain.ErrRateUnavailable) {
		return decimal.Zero, err
	}

	// Triangulate through the base currency; the product stays at full
	// precision until the caller rounds.
	leg1, err := uc.rateRepo.GetAsOf(ctx, orgID, from, uc.baseCurrency, asOf)
	if err != nil {
		return decimal.Zero, wrapRateUnavailable(err, from, to, asOf)
	}

	leg2, err := uc.rateRepo.GetAsOf(ctx, orgID, uc.baseCurrency, to, asOf)
	if err != nil {
		return decimal.Zero, wrapRateUnavailable(err, from, to, asOf)
	}

	if uc.metrics != nil {
		uc.metrics.RateTriangulations.Inc()
	}

	return leg1.Rate.Mul(leg2.Rate), nil
}

// Convert converts amount from one currency to another as of a date. The
// result is rounded half-to-even at the display scale only once, at the end.
func (uc *RateUseCase) Convert(ctx context.Context, orgID string, amount decimal.Decimal, from, to string, asOf time.Time) (decimal.Decimal, error) {
	rate, err := uc.Rate(ctx, orgID, from, to, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	if uc.metrics != nil {
		uc.metrics.RateConversions.Inc()
	}

	return domain.ConvertAmount(amount, rate, domain.DisplayScale), nil
}

func wrapRateUnavailable(err error, from, to string, asOf time.Time) error {
	if errors.Is(err, domain.ErrRateUnavailable) {
		return fmt.Errorf("%w: %s/%s as of %s", domain.ErrRateUnavailable, from, to, asOf.Format(time.DateOnly))
	}
	return err
}
