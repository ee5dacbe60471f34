package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Validation errors
	ErrInsufficientEntries  = errors.New("transaction requires at least two entries")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrImbalancedEntries    = errors.New("debit and credit totals do not balance")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInactiveAccount      = errors.New("account is inactive")
	ErrOrgMismatch          = errors.New("account belongs to a different organization")
	ErrDuplicateAccountCode = errors.New("account code already exists in organization")

	// Workflow errors
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrEntriesImmutable    = errors.New("entries may only be modified while draft")
	ErrTransactionNotFound = errors.New("transaction not found")

	// Period errors
	ErrPeriodClosed   = errors.New("fiscal period is closed")
	ErrPeriodLocked   = errors.New("fiscal period is locked")
	ErrNoOpenPeriod   = errors.New("no fiscal period covers the transaction date")
	ErrPeriodNotFound = errors.New("fiscal period not found")

	// Rate errors
	ErrRateUnavailable = errors.New("no exchange rate available for pair and date")

	// Dimension errors
	ErrDimensionValueNotFound = errors.New("dimension value not found")

	// Allocation errors
	ErrInvalidAllocationInput = errors.New("invalid allocation input")

	// Concurrency errors
	ErrContention = errors.New("account contention exceeded retry budget")
)

// ImbalancedEntriesError carries the signed difference (debits minus credits)
// so the caller can correct the request.
type ImbalancedEntriesError struct {
	Difference decimal.Decimal
}

func (e *ImbalancedEntriesError) Error() string {
	return fmt.Sprintf("debit and credit totals do not balance: difference %s", e.Difference.StringFixed(DisplayScale))
}

func (e *ImbalancedEntriesError) Unwrap() error {
	return ErrImbalancedEntries
}

// InvalidTransitionError identifies the current and requested status of a
// rejected transition.
type InvalidTransitionError struct {
	From TransactionStatus
	To   TransactionStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
