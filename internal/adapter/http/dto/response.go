package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/usecase"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string          `json:"id"`
	OrgID     string          `json:"org_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Version   int64           `json:"version"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		OrgID:     a.OrgID,
		Code:      a.Code,
		Name:      a.Name,
		Type:      string(a.Type),
		Currency:  a.Currency,
		Balance:   a.Balance,
		Version:   a.Version,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts a slice of domain accounts.
func AccountsFromDomain(accounts []*domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = AccountFromDomain(a)
	}
	return out
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Total    int64             `json:"total"`
}

// BalanceResponse reports an account balance, optionally as of a date.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	AsOf      string          `json:"as_of,omitempty"`
}

// EntryResponse represents one entry line.
type EntryResponse struct {
	LineNumber        int             `json:"line_number"`
	AccountID         string          `json:"account_id"`
	Debit             decimal.Decimal `json:"debit"`
	Credit            decimal.Decimal `json:"credit"`
	DimensionValueIDs []string        `json:"dimension_value_ids,omitempty"`
	Memo              string          `json:"memo,omitempty"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID             string          `json:"id"`
	OrgID          string          `json:"org_id"`
	Reference      string          `json:"reference"`
	Type           string          `json:"type"`
	Date           string          `json:"date"`
	Description    string          `json:"description,omitempty"`
	Status         string          `json:"status"`
	Currency       string          `json:"currency"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	ConvertedTotal decimal.Decimal `json:"converted_total"`
	ReversalOf     string          `json:"reversal_of,omitempty"`
	Entries        []EntryResponse `json:"entries,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) TransactionResponse {
	entries := make([]EntryResponse, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = EntryResponse{
			LineNumber:        e.LineNumber,
			AccountID:         e.AccountID,
			Debit:             e.Debit,
			Credit:            e.Credit,
			DimensionValueIDs: e.DimensionValueIDs,
			Memo:              e.Memo,
		}
	}

	return TransactionResponse{
		ID:             t.ID,
		OrgID:          t.OrgID,
		Reference:      t.Reference,
		Type:           string(t.Type),
		Date:           t.Date.Format(time.DateOnly),
		Description:    t.Description,
		Status:         string(t.Status),
		Currency:       t.Currency,
		ExchangeRate:   t.ExchangeRate,
		ConvertedTotal: t.ConvertedTotal,
		ReversalOf:     t.ReversalOf,
		Entries:        entries,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// TransactionsFromDomain converts a slice of domain transactions.
func TransactionsFromDomain(txns []*domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		out[i] = TransactionFromDomain(t)
	}
	return out
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
}

// BulkApproveResponse partitions a bulk approval into outcomes.
type BulkApproveResponse struct {
	Approved []string             `json:"approved"`
	Failed   []BulkApproveFailure `json:"failed"`
}

// BulkApproveFailure is one rejected id with its reason.
type BulkApproveFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkApproveFromResult converts a use case result to a response.
func BulkApproveFromResult(res *usecase.BulkApproveResult) BulkApproveResponse {
	failed := make([]BulkApproveFailure, len(res.Failed))
	for i, f := range res.Failed {
		failed[i] = BulkApproveFailure{ID: f.ID, Reason: f.Reason}
	}
	return BulkApproveResponse{Approved: res.Approved, Failed: failed}
}

// RateResponse represents an exchange rate.
type RateResponse struct {
	ID            string          `json:"id"`
	OrgID         string          `json:"org_id"`
	FromCurrency  string          `json:"from_currency"`
	ToCurrency    string          `json:"to_currency"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate string          `json:"effective_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RateFromDomain converts a domain rate to a response.
func RateFromDomain(r *domain.ExchangeRate) RateResponse {
	return RateResponse{
		ID:            r.ID,
		OrgID:         r.OrgID,
		FromCurrency:  r.FromCurrency,
		ToCurrency:    r.ToCurrency,
		Rate:          r.Rate,
		EffectiveDate: r.EffectiveDate.Format(time.DateOnly),
		CreatedAt:     r.CreatedAt,
	}
}

// ConversionResponse reports the result of a currency conversion.
type ConversionResponse struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Converted decimal.Decimal `json:"converted"`
	AsOf      string          `json:"as_of"`
}

// PeriodResponse represents a fiscal period.
type PeriodResponse struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	Name      string    `json:"name"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PeriodFromDomain converts a domain period to a response.
func PeriodFromDomain(p *domain.FiscalPeriod) PeriodResponse {
	return PeriodResponse{
		ID:        p.ID,
		OrgID:     p.OrgID,
		Name:      p.Name,
		StartDate: p.StartDate.Format(time.DateOnly),
		EndDate:   p.EndDate.Format(time.DateOnly),
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PeriodsFromDomain converts a slice of domain periods.
func PeriodsFromDomain(periods []*domain.FiscalPeriod) []PeriodResponse {
	out := make([]PeriodResponse, len(periods))
	for i, p := range periods {
		out[i] = PeriodFromDomain(p)
	}
	return out
}

// AuditLogResponse represents one audit trail record.
type AuditLogResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	Action        string    `json:"action"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuditLogsFromDomain converts a slice of domain audit logs.
func AuditLogsFromDomain(logs []*domain.AuditLog) []AuditLogResponse {
	out := make([]AuditLogResponse, len(logs))
	for i, l := range logs {
		out[i] = AuditLogResponse{
			ID:            l.ID,
			TransactionID: l.TransactionID,
			Action:        string(l.Action),
			FromStatus:    string(l.FromStatus),
			ToStatus:      string(l.ToStatus),
			Note:          l.Note,
			CreatedAt:     l.CreatedAt,
		}
	}
	return out
}

// TrialBalanceRow is one account line of a trial balance.
type TrialBalanceRow struct {
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	AccountType string          `json:"account_type"`
	DebitTotal  decimal.Decimal `json:"debit_total"`
	CreditTotal decimal.Decimal `json:"credit_total"`
}

// TrialBalanceResponse is the trial balance over a date range.
type TrialBalanceResponse struct {
	Rows        []TrialBalanceRow `json:"rows"`
	DebitTotal  decimal.Decimal   `json:"debit_total"`
	CreditTotal decimal.Decimal   `json:"credit_total"`
	Balanced    bool              `json:"balanced"`
}

// TrialBalanceFromUseCase converts a use case trial balance.
func TrialBalanceFromUseCase(tb *usecase.TrialBalance) TrialBalanceResponse {
	rows := make([]TrialBalanceRow, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRow{
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			AccountType: string(r.AccountType),
			DebitTotal:  r.DebitTotal,
			CreditTotal: r.CreditTotal,
		}
	}
	return TrialBalanceResponse{
		Rows:        rows,
		DebitTotal:  tb.DebitTotal,
		CreditTotal: tb.CreditTotal,
		Balanced:    tb.Balanced,
	}
}

// TypeTotalResponse is a net balance aggregated per account type.
type TypeTotalResponse struct {
	Type  string          `json:"type"`
	Total decimal.Decimal `json:"total"`
}

// TypeTotalsFromUseCase converts use case type totals.
func TypeTotalsFromUseCase(totals []usecase.TypeTotal) []TypeTotalResponse {
	out := make([]TypeTotalResponse, len(totals))
	for i, t := range totals {
		out[i] = TypeTotalResponse{Type: string(t.Type), Total: t.Total}
	}
	return out
}

// DimensionTotalResponse is debit/credit totals for one dimension value.
type DimensionTotalResponse struct {
	DimensionValueID string          `json:"dimension_value_id"`
	DimensionValue   string          `json:"dimension_value"`
	DebitTotal       decimal.Decimal `json:"debit_total"`
	CreditTotal      decimal.Decimal `json:"credit_total"`
}

// DimensionTotalsFromUseCase converts use case dimension totals.
func DimensionTotalsFromUseCase(rows []usecase.DimensionTotalsRow) []DimensionTotalResponse {
	out := make([]DimensionTotalResponse, len(rows))
	for i, r := range rows {
		out[i] = DimensionTotalResponse{
			DimensionValueID: r.DimensionValueID,
			DimensionValue:   r.DimensionValue,
			DebitTotal:       r.DebitTotal,
			CreditTotal:      r.CreditTotal,
		}
	}
	return out
}

// BudgetVarianceResponse compares a budget line against actual spend.
type BudgetVarianceResponse struct {
	BudgetLineID     string          `json:"budget_line_id"`
	AccountID        string          `json:"account_id"`
	DimensionValueID string          `json:"dimension_value_id,omitempty"`
	Limit            decimal.Decimal `json:"limit"`
	Actual           decimal.Decimal `json:"actual"`
	Variance         decimal.Decimal `json:"variance"`
	PeriodStart      string          `json:"period_start"`
	PeriodEnd        string          `json:"period_end"`
}

// BudgetVariancesFromUseCase converts use case budget variances.
func BudgetVariancesFromUseCase(variances []usecase.BudgetVariance) []BudgetVarianceResponse {
	out := make([]BudgetVarianceResponse, len(variances))
	for i, v := range variances {
		out[i] = BudgetVarianceResponse{
			BudgetLineID:     v.Line.ID,
			AccountID:        v.Line.AccountID,
			DimensionValueID: v.Line.DimensionValueID,
			Limit:            v.Line.Limit,
			Actual:           v.Actual,
			Variance:         v.Variance,
			PeriodStart:      v.Line.PeriodStart.Format(time.DateOnly),
			PeriodEnd:        v.Line.PeriodEnd.Format(time.DateOnly),
		}
	}
	return out
}

// DimensionResponse represents a reporting dimension.
type DimensionResponse struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DimensionFromDomain converts a domain dimension.
func DimensionFromDomain(d *domain.Dimension) DimensionResponse {
	return DimensionResponse{ID: d.ID, OrgID: d.OrgID, Name: d.Name, CreatedAt: d.CreatedAt}
}

// DimensionValueResponse represents one dimension value.
type DimensionValueResponse struct {
	ID          string    `json:"id"`
	DimensionID string    `json:"dimension_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}

// DimensionValuesFromDomain converts a slice of domain dimension values.
func DimensionValuesFromDomain(values []*domain.DimensionValue) []DimensionValueResponse {
	out := make([]DimensionValueResponse, len(values))
	for i, v := range values {
		out[i] = DimensionValueResponse{
			ID:          v.ID,
			DimensionID: v.DimensionID,
			Name:        v.Name,
			CreatedAt:   v.CreatedAt,
		}
	}
	return out
}

// DimensionValueFromDomain converts a single domain dimension value.
func DimensionValueFromDomain(v *domain.DimensionValue) DimensionValueResponse {
	return DimensionValueResponse{
		ID:          v.ID,
		DimensionID: v.DimensionID,
		Name:        v.Name,
		CreatedAt:   v.CreatedAt,
	}
}

// BudgetLineResponse represents a budget line.
type BudgetLineResponse struct {
	ID               string          `json:"id"`
	OrgID            string          `json:"org_id"`
	AccountID        string          `json:"account_id"`
	DimensionValueID string          `json:"dimension_value_id,omitempty"`
	Limit            decimal.Decimal `json:"limit"`
	PeriodStart      string          `json:"period_start"`
	PeriodEnd        string          `json:"period_end"`
}

// AllocateResponse carries the split line amounts, summing to the request
// total.
type AllocateResponse struct {
	Amounts []decimal.Decimal `json:"amounts"`
}

// BudgetLineFromDomain converts a domain budget line.
func BudgetLineFromDomain(l *domain.BudgetLine) BudgetLineResponse {
	return BudgetLineResponse{
		ID:               l.ID,
		OrgID:            l.OrgID,
		AccountID:        l.AccountID,
		DimensionValueID: l.DimensionValueID,
		Limit:            l.Limit,
		PeriodStart:      l.PeriodStart.Format(time.DateOnly),
		PeriodEnd:        l.PeriodEnd.Format(time.DateOnly),
	}
}
