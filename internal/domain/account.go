package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// BalanceSide is the side on which an account type increases.
type BalanceSide string

const (
	SideDebit  BalanceSide = "debit"
	SideCredit BalanceSide = "credit"
)

// Valid reports whether the account type is one of the known types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// NormalBalance returns the side on which this account type increases.
// Assets and expenses are debit-normal; the rest are credit-normal.
func (t AccountType) NormalBalance() BalanceSide {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// Account is a ledger account with a running balance. The version counter
// increments with every balance write so lost updates are detectable.
type Account struct {
	ID        string
	OrgID     string
	Code      string
	Name      string
	Type      AccountType
	Currency  string
	Balance   decimal.Decimal
	Version   int64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostingDelta returns the signed balance change produced by posting a debit
// and credit amount to this account, relative to its normal balance side.
func (a *Account) PostingDelta(debit, credit decimal.Decimal) decimal.Decimal {
	if a.Type.NormalBalance() == SideDebit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// ApplyPosting returns the balance after applying a debit/credit pair.
func (a *Account) ApplyPosting(debit, credit decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(a.PostingDelta(debit, credit))
}
