// Package mocks provides hand-written in-memory fakes for the usecase
// repository interfaces. Every method can be overridden through its Func
// field; without an override the fake behaves like a small, correct store.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/usecase"
)

// MockTransactionManager serializes fake database transactions with a mutex,
// mirroring the row-lock serialization the postgres implementation provides.
type MockTransactionManager struct {
	mu sync.Mutex

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	return &MockTx{mgr: m}, nil
}

// MockTx releases the manager's lock on Commit or Rollback, whichever comes
// first.
type MockTx struct {
	mgr  *MockTransactionManager
	done bool
	mu   sync.Mutex
}

func (t *MockTx) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.done {
		t.done = true
		t.mgr.mu.Unlock()
	}
}

func (t *MockTx) Commit(ctx context.Context) error {
	t.finish()
	return nil
}

func (t *MockTx) Rollback(ctx context.Context) error {
	t.finish()
	return nil
}

// MockRetrier runs the operation once without retries.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator issues sequential unique IDs.
type MockIDGenerator struct {
	counter atomic.Int64

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	return fmt.Sprintf("id-%06d", m.counter.Add(1))
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	CreateTxFunc          func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, orgID, id string) (*domain.Account, error)
	GetByCodeFunc         func(ctx context.Context, orgID, code string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, orgID string, ids []string) ([]*domain.Account, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, version int64, updatedAt time.Time) error
	SetActiveFunc         func(ctx context.Context, orgID, id string, active bool, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, orgID string, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func copyAccount(a *domain.Account) *domain.Account {
	cp := *a
	return &cp
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = copyAccount(account)
	return nil
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, account)
	}
	return m.Create(ctx, account)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, orgID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok && acc.OrgID == orgID {
		return copyAccount(acc), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, orgID, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, orgID, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.OrgID == orgID && acc.Code == code {
			return copyAccount(acc), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, orgID string, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, orgID, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, copyAccount(acc))
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, version int64, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, version, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if acc.Version != version-1 {
		return domain.ErrContention
	}
	acc.Balance = balance
	acc.Version = version
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) SetActive(ctx context.Context, orgID, id string, active bool, updatedAt time.Time) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, orgID, id, active, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok || acc.OrgID != orgID {
		return domain.ErrAccountNotFound
	}
	acc.Active = active
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, orgID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.OrgID == orgID {
			accounts = append(accounts, copyAccount(acc))
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	if offset > len(accounts) {
		offset = len(accounts)
	}
	end := offset + limit
	if end > len(accounts) {
		end = len(accounts)
	}
	return accounts[offset:end], nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns map[string]*domain.Transaction

	CreateFunc           func(ctx context.Context, txn *domain.Transaction) error
	CreateTxFunc         func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc          func(ctx context.Context, orgID, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, orgID, id string) (*domain.Transaction, error)
	UpdateStatusFunc     func(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, updatedAt time.Time) error
	ReplaceEntriesFunc   func(ctx context.Context, id string, entries []domain.Entry, updatedAt time.Time) error
	DeleteFunc           func(ctx context.Context, orgID, id string) error
	GetReversalFunc      func(ctx context.Context, orgID, originalID string) (*domain.Transaction, error)
	ListByStatusFunc     func(ctx context.Context, orgID string, status domain.TransactionStatus, limit, offset int) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		txns: make(map[string]*domain.Transaction),
	}
}

func copyTransaction(t *domain.Transaction) *domain.Transaction {
	cp := *t
	cp.Entries = make([]domain.Entry, len(t.Entries))
	copy(cp.Entries, t.Entries)
	return &cp
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns[txn.ID] = copyTransaction(txn)
	return nil
}

func (m *MockTransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, txn)
	}
	return m.Create(ctx, txn)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, orgID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.txns[id]; ok && txn.OrgID == orgID {
		return copyTransaction(txn), nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, orgID, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, orgID, id)
	}
	return m.GetByID(ctx, orgID, id)
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.txns[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	txn.Status = status
	txn.UpdatedAt = updatedAt
	return nil
}

func (m *MockTransactionRepository) ReplaceEntries(ctx context.Context, id string, entries []domain.Entry, updatedAt time.Time) error {
	if m.ReplaceEntriesFunc != nil {
		return m.ReplaceEntriesFunc(ctx, id, entries, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.txns[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	txn.Entries = make([]domain.Entry, len(entries))
	copy(txn.Entries, entries)
	txn.UpdatedAt = updatedAt
	return nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, orgID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, orgID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.txns[id]
	if !ok || txn.OrgID != orgID {
		return domain.ErrTransactionNotFound
	}
	delete(m.txns, id)
	return nil
}

func (m *MockTransactionRepository) GetReversal(ctx context.Context, orgID, originalID string) (*domain.Transaction, error) {
	if m.GetReversalFunc != nil {
		return m.GetReversalFunc(ctx, orgID, originalID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, txn := range m.txns {
		if txn.OrgID == orgID && txn.ReversalOf == originalID {
			return copyTransaction(txn), nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) ListByStatus(ctx context.Context, orgID string, status domain.TransactionStatus, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, orgID, status, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.txns {
		if txn.OrgID == orgID && txn.Status == status {
			txns = append(txns, copyTransaction(txn))
		}
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].CreatedAt.After(txns[j].CreatedAt) })
	if offset > len(txns) {
		offset = len(txns)
	}
	end := offset + limit
	if end > len(txns) {
		end = len(txns)
	}
	return txns[offset:end], nil
}

// MockRateRepository is a mock implementation of RateRepository.
type MockRateRepository struct {
	mu    sync.RWMutex
	rates []*domain.ExchangeRate

	CreateFunc  func(ctx context.Context, rate *domain.ExchangeRate) error
	GetAsOfFunc func(ctx context.Context, orgID, from, to string, asOf time.Time) (*domain.ExchangeRate, error)
}

func NewMockRateRepository() *MockRateRepository {
	return &MockRateRepository{}
}

func (m *MockRateRepository) Create(ctx context.Context, rate *domain.ExchangeRate) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rate)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rate
	m.rates = append(m.rates, &cp)
	return nil
}

func (m *MockRateRepository) GetAsOf(ctx context.Context, orgID, from, to string, asOf time.Time) (*domain.ExchangeRate, error) {
	if m.GetAsOfFunc != nil {
		return m.GetAsOfFunc(ctx, orgID, from, to, asOf)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *domain.ExchangeRate
	for _, r := range m.rates {
		if r.OrgID != orgID || r.FromCurrency != from || r.ToCurrency != to {
			continue
		}
		if r.EffectiveDate.After(asOf) {
			continue
		}
		if best == nil || r.EffectiveDate.After(best.EffectiveDate) {
			best = r
		}
	}
	if best == nil {
		return nil, domain.ErrRateUnavailable
	}
	cp := *best
	return &cp, nil
}

// MockPeriodRepository is a mock implementation of PeriodRepository.
type MockPeriodRepository struct {
	mu      sync.RWMutex
	periods map[string]*domain.FiscalPeriod

	CreateBatchFunc    func(ctx context.Context, periods []*domain.FiscalPeriod) error
	GetByIDFunc        func(ctx context.Context, orgID, id string) (*domain.FiscalPeriod, error)
	GetByDateFunc      func(ctx context.Context, orgID string, date time.Time) (*domain.FiscalPeriod, error)
	GetByDateTxFunc    func(ctx context.Context, tx usecase.Transaction, orgID string, date time.Time) (*domain.FiscalPeriod, error)
	UpdateStatusFunc   func(ctx context.Context, orgID, id string, status domain.PeriodStatus, updatedAt time.Time) error
	UpdateStatusTxFunc func(ctx context.Context, tx usecase.Transaction, orgID, id string, status domain.PeriodStatus, updatedAt time.Time) error
	ListFunc           func(ctx context.Context, orgID string, limit, offset int) ([]*domain.FiscalPeriod, error)
}

func NewMockPeriodRepository() *MockPeriodRepository {
	return &MockPeriodRepository{
		periods: make(map[string]*domain.FiscalPeriod),
	}
}

func (m *MockPeriodRepository) CreateBatch(ctx context.Context, periods []*domain.FiscalPeriod) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, periods)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range periods {
		cp := *p
		m.periods[p.ID] = &cp
	}
	return nil
}

func (m *MockPeriodRepository) GetByID(ctx context.Context, orgID, id string) (*domain.FiscalPeriod, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, orgID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.periods[id]; ok && p.OrgID == orgID {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrPeriodNotFound
}

func (m *MockPeriodRepository) GetByDate(ctx context.Context, orgID string, date time.Time) (*domain.FiscalPeriod, error) {
	if m.GetByDateFunc != nil {
		return m.GetByDateFunc(ctx, orgID, date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Earliest start date wins, matching the SQL repository's ordering.
	var match *domain.FiscalPeriod
	for _, p := range m.periods {
		if p.OrgID == orgID && p.Contains(date) {
			if match == nil || p.StartDate.Before(match.StartDate) {
				match = p
			}
		}
	}
	if match == nil {
		return nil, domain.ErrNoOpenPeriod
	}
	cp := *match
	return &cp, nil
}

func (m *MockPeriodRepository) GetByDateTx(ctx context.Context, tx usecase.Transaction, orgID string, date time.Time) (*domain.FiscalPeriod, error) {
	if m.GetByDateTxFunc != nil {
		return m.GetByDateTxFunc(ctx, tx, orgID, date)
	}
	return m.GetByDate(ctx, orgID, date)
}

func (m *MockPeriodRepository) UpdateStatus(ctx context.Context, orgID, id string, status domain.PeriodStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, orgID, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.periods[id]
	if !ok || p.OrgID != orgID {
		return domain.ErrPeriodNotFound
	}
	p.Status = status
	p.UpdatedAt = updatedAt
	return nil
}

func (m *MockPeriodRepository) UpdateStatusTx(ctx context.Context, tx usecase.Transaction, orgID, id string, status domain.PeriodStatus, updatedAt time.Time) error {
	if m.UpdateStatusTxFunc != nil {
		return m.UpdateStatusTxFunc(ctx, tx, orgID, id, status, updatedAt)
	}
	return m.UpdateStatus(ctx, orgID, id, status, updatedAt)
}

func (m *MockPeriodRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*domain.FiscalPeriod, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, orgID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var periods []*domain.FiscalPeriod
	for _, p := range m.periods {
		if p.OrgID == orgID {
			cp := *p
			periods = append(periods, &cp)
		}
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].StartDate.Before(periods[j].StartDate) })
	if offset > len(periods) {
		offset = len(periods)
	}
	end := offset + limit
	if end > len(periods) {
		end = len(periods)
	}
	return periods[offset:end], nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.Mutex
	Events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published {
			events = append(events, e)
		}
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Events[:0]
	for _, e := range m.Events {
		if !e.Published || e.CreatedAt.After(before) {
			kept = append(kept, e)
		}
	}
	m.Events = kept
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.Mutex
	Logs []*domain.AuditLog

	CreateFunc func(ctx context.Context, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var logs []*domain.AuditLog
	for _, l := range m.Logs {
		if filter.OrgID != "" && l.OrgID != filter.OrgID {
			continue
		}
		if filter.TransactionID != "" && l.TransactionID != filter.TransactionID {
			continue
		}
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// MockReportRepository computes aggregates from a linked transaction and
// account store, the way the SQL implementation sums posted entries.
type MockReportRepository struct {
	Txns     *MockTransactionRepository
	Accounts *MockAccountRepository

	AccountTotalsFunc   func(ctx context.Context, orgID string, from, to time.Time) ([]usecase.AccountTotalsRow, error)
	DimensionTotalsFunc func(ctx context.Context, orgID, dimensionID string, from, to time.Time) ([]usecase.DimensionTotalsRow, error)
	ActualSpendFunc     func(ctx context.Context, orgID, accountID, dimensionValueID string, from, to time.Time) (decimal.Decimal, error)
	BalanceAsOfFunc     func(ctx context.Context, orgID, accountID string, asOf time.Time) (decimal.Decimal, error)
}

func NewMockReportRepository(txns *MockTransactionRepository, accounts *MockAccountRepository) *MockReportRepository {
	return &MockReportRepository{Txns: txns, Accounts: accounts}
}

func (m *MockReportRepository) postedInRange(orgID string, from, to time.Time) []*domain.Transaction {
	m.Txns.mu.RLock()
	defer m.Txns.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.Txns.txns {
		if txn.OrgID != orgID || txn.Status != domain.StatusPosted {
			continue
		}
		if !from.IsZero() && txn.Date.Before(from) {
			continue
		}
		if !to.IsZero() && txn.Date.After(to) {
			continue
		}
		txns = append(txns, copyTransaction(txn))
	}
	return txns
}

func (m *MockReportRepository) AccountTotals(ctx context.Context, orgID string, from, to time.Time) ([]usecase.AccountTotalsRow, error) {
	if m.AccountTotalsFunc != nil {
		return m.AccountTotalsFunc(ctx, orgID, from, to)
	}

	totals := make(map[string]*usecase.AccountTotalsRow)
	for _, txn := range m.postedInRange(orgID, from, to) {
		for _, e := range txn.Entries {
			row, ok := totals[e.AccountID]
			if !ok {
				row = &usecase.AccountTotalsRow{AccountID: e.AccountID, DebitTotal: decimal.Zero, CreditTotal: decimal.Zero}
				if acc, err := m.Accounts.GetByID(ctx, orgID, e.AccountID); err == nil {
					row.AccountCode = acc.Code
					row.AccountName = acc.Name
					row.AccountType = acc.Type
				}
				totals[e.AccountID] = row
			}
			row.DebitTotal = row.DebitTotal.Add(e.Debit)
			row.CreditTotal = row.CreditTotal.Add(e.Credit)
		}
	}

	rows := make([]usecase.AccountTotalsRow, 0, len(totals))
	for _, row := range totals {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].AccountCode < rows[j].AccountCode })
	return rows, nil
}

func (m *MockReportRepository) DimensionTotals(ctx context.Context, orgID, dimensionID string, from, to time.Time) ([]usecase.DimensionTotalsRow, error) {
	if m.DimensionTotalsFunc != nil {
		return m.DimensionTotalsFunc(ctx, orgID, dimensionID, from, to)
	}

	totals := make(map[string]*usecase.DimensionTotalsRow)
	for _, txn := range m.postedInRange(orgID, from, to) {
		for _, e := range txn.Entries {
			for _, dv := range e.DimensionValueIDs {
				row, ok := totals[dv]
				if !ok {
					row = &usecase.DimensionTotalsRow{DimensionValueID: dv, DebitTotal: decimal.Zero, CreditTotal: decimal.Zero}
					totals[dv] = row
				}
				row.DebitTotal = row.DebitTotal.Add(e.Debit)
				row.CreditTotal = row.CreditTotal.Add(e.Credit)
			}
		}
	}

	rows := make([]usecase.DimensionTotalsRow, 0, len(totals))
	for _, row := range totals {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].DimensionValueID < rows[j].DimensionValueID })
	return rows, nil
}

func (m *MockReportRepository) ActualSpend(ctx context.Context, orgID, accountID, dimensionValueID string, from, to time.Time) (decimal.Decimal, error) {
	if m.ActualSpendFunc != nil {
		return m.ActualSpendFunc(ctx, orgID, accountID, dimensionValueID, from, to)
	}

	total := decimal.Zero
	for _, txn := range m.postedInRange(orgID, from, to) {
		for _, e := range txn.Entries {
			if e.AccountID != accountID {
				continue
			}
			if dimensionValueID != "" && !containsString(e.DimensionValueIDs, dimensionValueID) {
				continue
			}
			total = total.Add(e.Debit).Sub(e.Credit)
		}
	}
	return total, nil
}

func (m *MockReportRepository) BalanceAsOf(ctx context.Context, orgID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	if m.BalanceAsOfFunc != nil {
		return m.BalanceAsOfFunc(ctx, orgID, accountID, asOf)
	}

	acc, err := m.Accounts.GetByID(ctx, orgID, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, txn := range m.postedInRange(orgID, time.Time{}, asOf) {
		for _, e := range txn.Entries {
			if e.AccountID != accountID {
				continue
			}
			balance = balance.Add(acc.PostingDelta(e.Debit, e.Credit))
		}
	}
	return balance, nil
}

// MockBudgetRepository is a mock implementation of BudgetRepository.
type MockBudgetRepository struct {
	mu    sync.Mutex
	lines []*domain.BudgetLine
}

func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{}
}

func (m *MockBudgetRepository) Create(ctx context.Context, line *domain.BudgetLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *line
	m.lines = append(m.lines, &cp)
	return nil
}

func (m *MockBudgetRepository) List(ctx context.Context, orgID string) ([]*domain.BudgetLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var lines []*domain.BudgetLine
	for _, l := range m.lines {
		if l.OrgID == orgID {
			cp := *l
			lines = append(lines, &cp)
		}
	}
	return lines, nil
}

// MockDimensionRepository is a mock implementation of DimensionRepository.
type MockDimensionRepository struct {
	mu     sync.Mutex
	dims   map[string]*domain.Dimension
	values map[string]*domain.DimensionValue
}

func NewMockDimensionRepository() *MockDimensionRepository {
	return &MockDimensionRepository{
		dims:   make(map[string]*domain.Dimension),
		values: make(map[string]*domain.DimensionValue),
	}
}

func (m *MockDimensionRepository) CreateDimension(ctx context.Context, dim *domain.Dimension) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *dim
	m.dims[dim.ID] = &cp
	return nil
}

func (m *MockDimensionRepository) CreateValue(ctx context.Context, value *domain.DimensionValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *value
	m.values[value.ID] = &cp
	return nil
}

func (m *MockDimensionRepository) GetValue(ctx context.Context, id string) (*domain.DimensionValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, domain.ErrDimensionValueNotFound
}

func (m *MockDimensionRepository) ListValues(ctx context.Context, dimensionID string) ([]*domain.DimensionValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var values []*domain.DimensionValue
	for _, v := range m.values {
		if v.DimensionID == dimensionID {
			cp := *v
			values = append(values, &cp)
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i].Name < values[j].Name })
	return values, nil
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu    sync.Mutex
	items map[string]string

	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key, value string, ttl time.Duration) error
}

func NewMockCache() *MockCache {
	return &MockCache{items: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.items[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
