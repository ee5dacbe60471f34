package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/infrastructure/metrics"
)

// RateService is the rate lookup needed when snapshotting a conversion rate
// onto a new transaction. Implemented by RateUseCase.
type RateService interface {
	Rate(ctx context.Context, orgID, from, to string, asOf time.Time) (decimal.Decimal, error)
}

// PostingUseCase is the ledger posting engine: it owns draft creation, the
// validate-then-post path, and voiding via compensating reversal.
type PostingUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	txnRepo      TransactionRepository
	periodRepo   PeriodRepository
	outboxRepo   OutboxRepository
	auditRepo    AuditRepository
	rates        RateService
	retrier      Retrier
	idGen        IDGenerator
	metrics      *metrics.Metrics
	baseCurrency string
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	periodRepo PeriodRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	rates RateService,
	retrier Retrier,
	idGen IDGenerator,
	m *metrics.Metrics,
	baseCurrency string,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		txnRepo:      txnRepo,
		periodRepo:   periodRepo,
		outboxRepo:   outboxRepo,
		auditRepo:    auditRepo,
		rates:        rates,
		retrier:      retrier,
		idGen:        idGen,
		metrics:      m,
		baseCurrency: baseCurrency,
	}
}

// EntryInput is one proposed entry line.
type EntryInput struct {
	AccountID         string
	Debit             decimal.Decimal
	Credit            decimal.Decimal
	DimensionValueIDs []string
	Memo              string
}

// CreateTransactionInput represents input for creating a draft transaction.
type CreateTransactionInput struct {
	OrgID       string
	Reference   string
	Type        domain.TransactionType
	Date        time.Time
	Description string
	Currency    string
	Entries     []EntryInput
}

// CreateTransaction creates a transaction in draft. The conversion rate to
// the base currency is looked up as of the transaction date and frozen on the
// record; it is never recomputed later.
func (uc *PostingUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("unknown transaction type %q", input.Type)
	}

	currency := input.Currency
	if currency == "" {
		currency = uc.baseCurrency
	}

	rate := decimal.New(1, 0)
	if currency != uc.baseCurrency {
		r, err := uc.rates.Rate(ctx, input.OrgID, currency, uc.baseCurrency, input.Date)
		if err != nil {
			return nil, err
		}
		rate = r
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:           uc.idGen.Generate(),
		OrgID:        input.OrgID,
		Reference:    input.Reference,
		Type:         input.Type,
		Date:         input.Date,
		Description:  input.Description,
		Status:       domain.StatusDraft,
		Currency:     currency,
		ExchangeRate: rate,
		Entries:      buildEntries("", input.Entries),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for i := range txn.Entries {
		txn.Entries[i].TransactionID = txn.ID
		if err := txn.Entries[i].Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	txn.ConvertedTotal = domain.ConvertAmount(txn.DebitTotal(), rate, domain.DisplayScale)

	if err := uc.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	if err := uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:            uc.idGen.Generate(),
		OrgID:         input.OrgID,
		TransactionID: txn.ID,
		Action:        domain.AuditActionCreate,
		ToStatus:      domain.StatusDraft,
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}

	return txn, nil
}

// GetTransaction retrieves a transaction with its entries.
func (uc *PostingUseCase) GetTransaction(ctx context.Context, orgID, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, orgID, id)
}

// UpdateDraftEntries replaces the entries of a draft transaction. Any other
// status is immutable.
func (uc *PostingUseCase) UpdateDraftEntries(ctx context.Context, orgID, id string, entries []EntryInput) (*domain.Transaction, error) {
	txn, err := uc.txnRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if txn.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: status %s", domain.ErrEntriesImmutable, txn.Status)
	}

	built := buildEntries(txn.ID, entries)
	for i := range built {
		if err := built[i].Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	now := time.Now().UTC()
	if err := uc.txnRepo.ReplaceEntries(ctx, txn.ID, built, now); err != nil {
		return nil, err
	}

	txn.Entries = built
	txn.UpdatedAt = now
	txn.ConvertedTotal = domain.ConvertAmount(txn.DebitTotal(), txn.ExchangeRate, domain.DisplayScale)

	return txn, nil
}

// DeleteDraft removes a draft transaction. Posted history is never deleted.
func (uc *PostingUseCase) DeleteDraft(ctx context.Context, orgID, id string) error {
	txn, err := uc.txnRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return err
	}

	if txn.Status != domain.StatusDraft {
		return fmt.Errorf("%w: status %s", domain.ErrEntriesImmutable, txn.Status)
	}

	return uc.txnRepo.Delete(ctx, orgID, id)
}

// Post transitions an approved transaction to posted and applies its entries
// to account balances atomically. Posting an already-posted transaction is
// idempotent and returns the existing result. Contention beyond the retry
// budget surfaces as domain.ErrContention; no partial writes survive.
func (uc *PostingUseCase) Post(ctx context.Context, orgID, id string) (*domain.Transaction, error) {
	start := time.Now()

	txn, err := uc.txnRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if txn.Status == domain.StatusPosted {
		return txn, nil
	}

	if !txn.Status.CanTransition(domain.StatusPosted) {
		return nil, &domain.InvalidTransitionError{From: txn.Status, To: domain.StatusPosted}
	}

	if err := txn.ValidateEntries(); err != nil {
		return nil, err
	}

	// Cheap pre-check on the read path. The authoritative period check runs
	// again inside the commit transaction.
	period, err := uc.periodRepo.GetByDate(ctx, orgID, txn.Date)
	if err != nil {
		return nil, err
	}
	if err := period.ValidatePostable(); err != nil {
		return nil, err
	}

	var result *domain.Transaction
	err = uc.retrier.Retry(ctx, func() error {
		res, postErr := uc.postOnce(ctx, orgID, id)
		if postErr != nil {
			return postErr
		}
		result = res
		return nil
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.PostingErrors.WithLabelValues(errorLabel(err)).Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsPosted.Inc()
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
	}

	return result, nil
}

func (uc *PostingUseCase) postOnce(ctx context.Context, orgID, id string) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	txn, err := uc.txnRepo.GetByIDForUpdate(txCtx, tx, orgID, id)
	if err != nil {
		return nil, err
	}

	// A concurrent caller may have posted it first.
	if txn.Status == domain.StatusPosted {
		return txn, nil
	}

	if !txn.Status.CanTransition(domain.StatusPosted) {
		return nil, &domain.InvalidTransitionError{From: txn.Status, To: domain.StatusPosted}
	}

	if err := txn.ValidateEntries(); err != nil {
		return nil, err
	}

	// Commit-time period status check closes the closed-period race.
	period, err := uc.periodRepo.GetByDateTx(txCtx, tx, orgID, txn.Date)
	if err != nil {
		return nil, err
	}
	if err := period.ValidatePostable(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.applyEntries(txCtx, tx, orgID, txn.Entries, false, now); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.UpdateStatus(txCtx, tx, txn.ID, domain.StatusPosted, now); err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(txCtx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransactionPosted,
		Payload: map[string]any{
			"transaction_id": txn.ID,
			"org_id":         txn.OrgID,
			"reference":      txn.Reference,
			"currency":       txn.Currency,
			"debit_total":    txn.DebitTotal().String(),
			"date":           txn.Date.Format(time.DateOnly),
		},
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := uc.auditRepo.CreateTx(txCtx, tx, &domain.AuditLog{
		ID:            uc.idGen.Generate(),
		OrgID:         orgID,
		TransactionID: txn.ID,
		Action:        domain.AuditActionPost,
		FromStatus:    txn.Status,
		ToStatus:      domain.StatusPosted,
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	txn.Status = domain.StatusPosted
	txn.UpdatedAt = now

	return txn, nil
}

// Void reverses a posted transaction with compensating entries and marks the
// original voided. Voiding an already-voided transaction is idempotent and
// returns the existing reversal.
func (uc *PostingUseCase) Void(ctx context.Context, orgID, id string) (*domain.Transaction, error) {
	txn, err := uc.txnRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if txn.Status == domain.StatusVoided {
		return uc.txnRepo.GetReversal(ctx, orgID, id)
	}

	if !txn.Status.CanTransition(domain.StatusVoided) {
		return nil, &domain.InvalidTransitionError{From: txn.Status, To: domain.StatusVoided}
	}

	var reversal *domain.Transaction
	err = uc.retrier.Retry(ctx, func() error {
		rev, voidErr := uc.voidOnce(ctx, orgID, id)
		if voidErr != nil {
			return voidErr
		}
		reversal = rev
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsVoided.Inc()
	}

	return reversal, nil
}

func (uc *PostingUseCase) voidOnce(ctx context.Context, orgID, id string) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	txn, err := uc.txnRepo.GetByIDForUpdate(txCtx, tx, orgID, id)
	if err != nil {
		return nil, err
	}

	if txn.Status == domain.StatusVoided {
		return uc.txnRepo.GetReversal(txCtx, orgID, id)
	}

	if !txn.Status.CanTransition(domain.StatusVoided) {
		return nil, &domain.InvalidTransitionError{From: txn.Status, To: domain.StatusVoided}
	}

	// The reversal posts into the same period; it must still be open.
	period, err := uc.periodRepo.GetByDateTx(txCtx, tx, orgID, txn.Date)
	if err != nil {
		return nil, err
	}
	if err := period.ValidatePostable(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.applyEntries(txCtx, tx, orgID, txn.Entries, true, now); err != nil {
		return nil, err
	}

	reversal := &domain.Transaction{
		ID:             uc.idGen.Generate(),
		OrgID:          txn.OrgID,
		Reference:      txn.Reference + "-REV",
		Type:           txn.Type,
		Date:           txn.Date,
		Description:    "Reversal of " + txn.Reference,
		Status:         domain.StatusPosted,
		Currency:       txn.Currency,
		ExchangeRate:   txn.ExchangeRate,
		ConvertedTotal: txn.ConvertedTotal,
		ReversalOf:     txn.ID,
		Entries:        txn.ReversalEntries(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for i := range reversal.Entries {
		reversal.Entries[i].TransactionID = reversal.ID
	}

	if err := uc.txnRepo.CreateTx(txCtx, tx, reversal); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.UpdateStatus(txCtx, tx, txn.ID, domain.StatusVoided, now); err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(txCtx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransactionVoided,
		Payload: map[string]any{
			"transaction_id": txn.ID,
			"reversal_id":    reversal.ID,
		},
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := uc.auditRepo.CreateTx(txCtx, tx, &domain.AuditLog{
		ID:            uc.idGen.Generate(),
		OrgID:         orgID,
		TransactionID: txn.ID,
		Action:        domain.AuditActionVoid,
		FromStatus:    domain.StatusPosted,
		ToStatus:      domain.StatusVoided,
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return reversal, nil
}

// applyEntries locks the referenced accounts in sorted order and applies one
// aggregated signed delta and one version increment per account. With reverse
// set, deltas are negated (void path).
func (uc *PostingUseCase) applyEntries(ctx context.Context, tx Transaction, orgID string, entries []domain.Entry, reverse bool, now time.Time) error {
	ids := collectAccountIDs(entries)
	sort.Strings(ids)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, orgID, ids)
	if err != nil {
		return err
	}

	accountMap := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		accountMap[a.ID] = a
	}

	for _, aid := range ids {
		account, ok := accountMap[aid]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, aid)
		}
		if account.OrgID != orgID {
			return fmt.Errorf("%w: %s", domain.ErrOrgMismatch, aid)
		}
		if !account.Active {
			return fmt.Errorf("%w: %s", domain.ErrInactiveAccount, account.Code)
		}
	}

	for _, aid := range ids {
		account := accountMap[aid]

		delta := decimal.Zero
		for i := range entries {
			if entries[i].AccountID != aid {
				continue
			}
			delta = delta.Add(account.PostingDelta(entries[i].Debit, entries[i].Credit))
		}
		if reverse {
			delta = delta.Neg()
		}

		newBalance := domain.RoundWorking(account.Balance.Add(delta))
		newVersion := account.Version + 1

		if err := uc.accountRepo.UpdateBalance(ctx, tx, aid, newBalance, newVersion, now); err != nil {
			return err
		}

		account.Balance = newBalance
		account.Version = newVersion
	}

	return nil
}

func buildEntries(txnID string, inputs []EntryInput) []domain.Entry {
	entries := make([]domain.Entry, len(inputs))
	for i, in := range inputs {
		entries[i] = domain.Entry{
			TransactionID:     txnID,
			LineNumber:        i + 1,
			AccountID:         in.AccountID,
			Debit:             in.Debit,
			Credit:            in.Credit,
			DimensionValueIDs: in.DimensionValueIDs,
			Memo:              in.Memo,
		}
	}
	return entries
}

func collectAccountIDs(entries []domain.Entry) []string {
	seen := make(map[string]bool)

	var ids []string
	for i := range entries {
		if !seen[entries[i].AccountID] {
			seen[entries[i].AccountID] = true
			ids = append(ids, entries[i].AccountID)
		}
	}

	return ids
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrContention):
		return "contention"
	case errors.Is(err, domain.ErrImbalancedEntries):
		return "imbalanced"
	case errors.Is(err, domain.ErrPeriodClosed),
		errors.Is(err, domain.ErrPeriodLocked),
		errors.Is(err, domain.ErrNoOpenPeriod):
		return "period"
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrInactiveAccount),
		errors.Is(err, domain.ErrOrgMismatch):
		return "account"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "transition"
	default:
		return "other"
	}
}
