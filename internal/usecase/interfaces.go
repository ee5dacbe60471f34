package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/domain"
)

//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks github.com/iho/ledgerbook/internal/usecase RateService,IdempotencyStore

// AccountRepository defines data access for accounts. All lookups are scoped
// to an organization; the caller passes the scope explicitly.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Account, error)
	GetByCode(ctx context.Context, orgID, code string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, orgID string, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, version int64, updatedAt time.Time) error
	SetActive(ctx context.Context, orgID, id string, active bool, updatedAt time.Time) error
	List(ctx context.Context, orgID string, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for transactions and their
// entries. Reads always return the transaction with its entries in line order.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	CreateTx(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, orgID, id string) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.TransactionStatus, updatedAt time.Time) error
	ReplaceEntries(ctx context.Context, id string, entries []domain.Entry, updatedAt time.Time) error
	Delete(ctx context.Context, orgID, id string) error
	GetReversal(ctx context.Context, orgID, originalID string) (*domain.Transaction, error)
	ListByStatus(ctx context.Context, orgID string, status domain.TransactionStatus, limit, offset int) ([]*domain.Transaction, error)
}

// RateRepository defines data access for exchange rates.
type RateRepository interface {
	Create(ctx context.Context, rate *domain.ExchangeRate) error
	// GetAsOf returns the most recent rate effective at or before asOf,
	// or domain.ErrRateUnavailable.
	GetAsOf(ctx context.Context, orgID, from, to string, asOf time.Time) (*domain.ExchangeRate, error)
}

// PeriodRepository defines data access for fiscal periods.
type PeriodRepository interface {
	CreateBatch(ctx context.Context, periods []*domain.FiscalPeriod) error
	GetByID(ctx context.Context, orgID, id string) (*domain.FiscalPeriod, error)
	// GetByDate returns the period containing date, or domain.ErrNoOpenPeriod.
	GetByDate(ctx context.Context, orgID string, date time.Time) (*domain.FiscalPeriod, error)
	// GetByDateTx re-reads the period inside a posting transaction so the
	// open-status check holds at commit time, not validation time.
	GetByDateTx(ctx context.Context, tx Transaction, orgID string, date time.Time) (*domain.FiscalPeriod, error)
	UpdateStatus(ctx context.Context, orgID, id string, status domain.PeriodStatus, updatedAt time.Time) error
	UpdateStatusTx(ctx context.Context, tx Transaction, orgID, id string, status domain.PeriodStatus, updatedAt time.Time) error
	List(ctx context.Context, orgID string, limit, offset int) ([]*domain.FiscalPeriod, error)
}

// DimensionRepository defines data access for dimensions and their values.
type DimensionRepository interface {
	CreateDimension(ctx context.Context, dim *domain.Dimension) error
	CreateValue(ctx context.Context, value *domain.DimensionValue) error
	GetValue(ctx context.Context, id string) (*domain.DimensionValue, error)
	ListValues(ctx context.Context, dimensionID string) ([]*domain.DimensionValue, error)
}

// BudgetRepository defines data access for budget lines.
type BudgetRepository interface {
	Create(ctx context.Context, line *domain.BudgetLine) error
	List(ctx context.Context, orgID string) ([]*domain.BudgetLine, error)
}

// AccountTotalsRow is one trial balance line: posted debit/credit sums for
// an account.
type AccountTotalsRow struct {
	AccountID   string
	AccountCode string
	AccountName string
	AccountType domain.AccountType
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// DimensionTotalsRow is an aggregate of posted entries per dimension value.
type DimensionTotalsRow struct {
	DimensionValueID string
	DimensionValue   string
	DebitTotal       decimal.Decimal
	CreditTotal      decimal.Decimal
}

// ReportRepository computes read-side aggregates by summing posted entries.
// These reads never block writers.
type ReportRepository interface {
	AccountTotals(ctx context.Context, orgID string, from, to time.Time) ([]AccountTotalsRow, error)
	DimensionTotals(ctx context.Context, orgID, dimensionID string, from, to time.Time) ([]DimensionTotalsRow, error)
	// ActualSpend sums posted entry amounts for an account, optionally
	// narrowed to a dimension value, over a date range.
	ActualSpend(ctx context.Context, orgID, accountID, dimensionValueID string, from, to time.Time) (decimal.Decimal, error)
	// BalanceAsOf reconstructs an account balance from posted entries up to
	// and including asOf.
	BalanceAsOf(ctx context.Context, orgID, accountID string, asOf time.Time) (decimal.Decimal, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for the workflow audit trail.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on retryable storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for read-mostly lookups.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
