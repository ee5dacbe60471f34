package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a conversion rate between two currencies effective from a
// date. Lookups pick the most recent rate at or before the requested date.
type ExchangeRate struct {
	ID            string
	OrgID         string
	FromCurrency  string
	ToCurrency    string
	Rate          decimal.Decimal
	EffectiveDate time.Time
	CreatedAt     time.Time
}

// Inverse returns the reciprocal rate at full precision.
func (r *ExchangeRate) Inverse() decimal.Decimal {
	return decimal.New(1, 0).Div(r.Rate)
}
