package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the business intent of a transaction.
type TransactionType string

const (
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeRevenue  TransactionType = "revenue"
	TransactionTypeTransfer TransactionType = "transfer"
	TransactionTypeJournal  TransactionType = "journal"
)

// Valid reports whether the transaction type is known.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeExpense, TransactionTypeRevenue,
		TransactionTypeTransfer, TransactionTypeJournal:
		return true
	}
	return false
}

// TransactionStatus is the lifecycle state of a transaction.
//
// Legal transitions:
//
//	draft → pending (submit)
//	pending → approved (approve)
//	pending → draft (reject)
//	approved → posted (post)
//	posted → voided (void, terminal)
type TransactionStatus string

const (
	StatusDraft    TransactionStatus = "draft"
	StatusPending  TransactionStatus = "pending"
	StatusApproved TransactionStatus = "approved"
	StatusPosted   TransactionStatus = "posted"
	StatusVoided   TransactionStatus = "voided"
)

// CanTransition reports whether moving from s to target is legal.
func (s TransactionStatus) CanTransition(target TransactionStatus) bool {
	switch s {
	case StatusDraft:
		return target == StatusPending
	case StatusPending:
		return target == StatusApproved || target == StatusDraft
	case StatusApproved:
		return target == StatusPosted
	case StatusPosted:
		return target == StatusVoided
	case StatusVoided:
		return false
	}
	return false
}

// Transition validates and returns the target status, or an
// InvalidTransitionError naming both states.
func (s TransactionStatus) Transition(target TransactionStatus) (TransactionStatus, error) {
	if !s.CanTransition(target) {
		return s, &InvalidTransitionError{From: s, To: target}
	}
	return target, nil
}

// Entry is a single debit or credit line of a transaction. Exactly one of
// Debit and Credit is positive, never both.
type Entry struct {
	TransactionID     string
	LineNumber        int
	AccountID         string
	Debit             decimal.Decimal
	Credit            decimal.Decimal
	DimensionValueIDs []string
	Memo              string
}

// Amount returns the entry's magnitude regardless of side.
func (e *Entry) Amount() decimal.Decimal {
	if e.Debit.IsPositive() {
		return e.Debit
	}
	return e.Credit
}

// Validate checks the one-sided positive-amount invariant.
func (e *Entry) Validate() error {
	hasDebit := e.Debit.IsPositive()
	hasCredit := e.Credit.IsPositive()

	if e.Debit.IsNegative() || e.Credit.IsNegative() {
		return ErrInvalidAmount
	}

	if hasDebit == hasCredit {
		// both present or both zero
		return ErrInvalidAmount
	}

	return nil
}

// Transaction is a proposed or recorded set of balanced ledger entries.
// Currency and ExchangeRate are frozen at creation time for audit; the rate
// is never recomputed after posting.
type Transaction struct {
	ID             string
	OrgID          string
	Reference      string
	Type           TransactionType
	Date           time.Time
	Description    string
	Status         TransactionStatus
	Currency       string
	ExchangeRate   decimal.Decimal
	ConvertedTotal decimal.Decimal
	ReversalOf     string
	Entries        []Entry
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DebitTotal sums debit amounts at the working scale.
func (t *Transaction) DebitTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range t.Entries {
		total = total.Add(t.Entries[i].Debit)
	}
	return RoundWorking(total)
}

// CreditTotal sums credit amounts at the working scale.
func (t *Transaction) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range t.Entries {
		total = total.Add(t.Entries[i].Credit)
	}
	return RoundWorking(total)
}

// ValidateEntries enforces the posting-path entry invariants: at least two
// entries, every amount positive and one-sided, and debit/credit totals equal
// at the working scale.
func (t *Transaction) ValidateEntries() error {
	if len(t.Entries) < 2 {
		return ErrInsufficientEntries
	}

	for i := range t.Entries {
		if err := t.Entries[i].Validate(); err != nil {
			return err
		}
	}

	diff := t.DebitTotal().Sub(t.CreditTotal())
	if !diff.IsZero() {
		return &ImbalancedEntriesError{Difference: diff}
	}

	return nil
}

// ReversalEntries returns compensating entries with debit and credit swapped,
// preserving line order and dimension tags.
func (t *Transaction) ReversalEntries() []Entry {
	entries := make([]Entry, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = Entry{
			LineNumber:        e.LineNumber,
			AccountID:         e.AccountID,
			Debit:             e.Credit,
			Credit:            e.Debit,
			DimensionValueIDs: e.DimensionValueIDs,
			Memo:              e.Memo,
		}
	}
	return entries
}
