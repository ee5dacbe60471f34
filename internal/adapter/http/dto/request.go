package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(orgID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OrgID:    orgID,
		Code:     r.Code,
		Name:     r.Name,
		Type:     domain.AccountType(r.Type),
		Currency: r.Currency,
	}
}

// EntryRequest represents a single entry line in a transaction request.
type EntryRequest struct {
	AccountID         string          `json:"account_id"`
	Debit             decimal.Decimal `json:"debit"`
	Credit            decimal.Decimal `json:"credit"`
	DimensionValueIDs []string        `json:"dimension_value_ids,omitempty"`
	Memo              string          `json:"memo,omitempty"`
}

func entriesToUseCaseInput(entries []EntryRequest) []usecase.EntryInput {
	inputs := make([]usecase.EntryInput, len(entries))
	for i, e := range entries {
		inputs[i] = usecase.EntryInput{
			AccountID:         e.AccountID,
			Debit:             e.Debit,
			Credit:            e.Credit,
			DimensionValueIDs: e.DimensionValueIDs,
			Memo:              e.Memo,
		}
	}
	return inputs
}

// CreateTransactionRequest represents a request to create a draft transaction.
type CreateTransactionRequest struct {
	Reference   string         `json:"reference"`
	Type        string         `json:"type"`
	Date        string         `json:"date"`
	Description string         `json:"description,omitempty"`
	Currency    string         `json:"currency,omitempty"`
	Entries     []EntryRequest `json:"entries"`
}

// ToUseCaseInput converts to use case input. Dates are calendar days.
func (r *CreateTransactionRequest) ToUseCaseInput(orgID string) (usecase.CreateTransactionInput, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return usecase.CreateTransactionInput{}, err
	}

	return usecase.CreateTransactionInput{
		OrgID:       orgID,
		Reference:   r.Reference,
		Type:        domain.TransactionType(r.Type),
		Date:        date,
		Description: r.Description,
		Currency:    r.Currency,
		Entries:     entriesToUseCaseInput(r.Entries),
	}, nil
}

// UpdateEntriesRequest replaces the entry lines of a draft transaction.
type UpdateEntriesRequest struct {
	Entries []EntryRequest `json:"entries"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEntriesRequest) ToUseCaseInput() []usecase.EntryInput {
	return entriesToUseCaseInput(r.Entries)
}

// BulkApproveRequest lists pending transactions to approve.
type BulkApproveRequest struct {
	TransactionIDs []string `json:"transaction_ids"`
}

// AddRateRequest represents a request to register an exchange rate.
type AddRateRequest struct {
	FromCurrency  string          `json:"from_currency"`
	ToCurrency    string          `json:"to_currency"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate string          `json:"effective_date"`
}

// ToUseCaseInput converts to use case input.
func (r *AddRateRequest) ToUseCaseInput(orgID string) (usecase.AddRateInput, error) {
	date, err := parseDate(r.EffectiveDate)
	if err != nil {
		return usecase.AddRateInput{}, err
	}

	return usecase.AddRateInput{
		OrgID:         orgID,
		FromCurrency:  r.FromCurrency,
		ToCurrency:    r.ToCurrency,
		Rate:          r.Rate,
		EffectiveDate: date,
	}, nil
}

// CreateFiscalYearRequest generates the monthly periods of a fiscal year.
type CreateFiscalYearRequest struct {
	Name                    string `json:"name"`
	Start                   string `json:"start"`
	IncludeAdjustmentPeriod bool   `json:"include_adjustment_period"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateFiscalYearRequest) ToUseCaseInput(orgID string) (usecase.CreateFiscalYearInput, error) {
	start, err := parseDate(r.Start)
	if err != nil {
		return usecase.CreateFiscalYearInput{}, err
	}

	return usecase.CreateFiscalYearInput{
		OrgID:                   orgID,
		Name:                    r.Name,
		Start:                   start,
		IncludeAdjustmentPeriod: r.IncludeAdjustmentPeriod,
	}, nil
}

// SetPeriodStatusRequest transitions a fiscal period.
type SetPeriodStatusRequest struct {
	Status      string `json:"status"`
	AdminReopen bool   `json:"admin_reopen,omitempty"`
}

// CreateDimensionRequest registers a reporting dimension.
type CreateDimensionRequest struct {
	Name string `json:"name"`
}

// CreateDimensionValueRequest adds a value to a dimension.
type CreateDimensionValueRequest struct {
	Name string `json:"name"`
}

// CreateBudgetLineRequest creates a spend limit for an account.
type CreateBudgetLineRequest struct {
	AccountID        string          `json:"account_id"`
	DimensionValueID string          `json:"dimension_value_id,omitempty"`
	Limit            decimal.Decimal `json:"limit"`
	PeriodStart      string          `json:"period_start"`
	PeriodEnd        string          `json:"period_end"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBudgetLineRequest) ToUseCaseInput(orgID string) (usecase.CreateBudgetLineInput, error) {
	start, err := parseDate(r.PeriodStart)
	if err != nil {
		return usecase.CreateBudgetLineInput{}, err
	}
	end, err := parseDate(r.PeriodEnd)
	if err != nil {
		return usecase.CreateBudgetLineInput{}, err
	}

	return usecase.CreateBudgetLineInput{
		OrgID:            orgID,
		AccountID:        r.AccountID,
		DimensionValueID: r.DimensionValueID,
		Limit:            r.Limit,
		PeriodStart:      start,
		PeriodEnd:        end,
	}, nil
}

// AllocateRequest splits a total across weighted lines. When weights are
// omitted, lines gives an equal split count.
type AllocateRequest struct {
	Total   decimal.Decimal   `json:"total"`
	Weights []decimal.Decimal `json:"weights,omitempty"`
	Lines   int               `json:"lines,omitempty"`
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
