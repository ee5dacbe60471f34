package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dimension is a named analytic axis, e.g. "Department" or "Project".
// Dimensions slice reporting; they never affect balance correctness.
type Dimension struct {
	ID        string
	OrgID     string
	Name      string
	CreatedAt time.Time
}

// DimensionValue is one permitted value of a dimension.
type DimensionValue struct {
	ID          string
	DimensionID string
	Name        string
	CreatedAt   time.Time
}

// BudgetLine limits spend on an account, optionally scoped to a dimension
// value. Actual is a read-side aggregate over posted entries, never mutated
// independently.
type BudgetLine struct {
	ID               string
	OrgID            string
	AccountID        string
	DimensionValueID string
	Limit            decimal.Decimal
	PeriodStart      time.Time
	PeriodEnd        time.Time
}

// Variance returns limit minus actual; negative means over budget.
func (b *BudgetLine) Variance(actual decimal.Decimal) decimal.Decimal {
	return b.Limit.Sub(actual)
}
