package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds a posting database transaction so a
	// stalled commit cannot hold account locks indefinitely.
	DefaultTransactionTimeout = 10 * time.Second

	// PostingRetryBudget is how many times a posting is retried on account
	// contention before failing with domain.ErrContention.
	PostingRetryBudget = 3

	// RateCacheTTL is how long rate lookups may be served from cache.
	RateCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// MonthsPerFiscalYear is the number of regular periods generated for a
	// fiscal year; an optional thirteenth adjustment period may follow.
	MonthsPerFiscalYear = 12
)
