package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/usecase"
	"github.com/iho/ledgerbook/internal/usecase/mocks"
)

const testOrgID = "org-1"

var testDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	dec, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return dec
}

type postingFixture struct {
	accounts *mocks.MockAccountRepository
	txns     *mocks.MockTransactionRepository
	periods  *mocks.MockPeriodRepository
	outbox   *mocks.MockOutboxRepository
	audit    *mocks.MockAuditRepository
	idGen    *mocks.MockIDGenerator
	uc       *usecase.PostingUseCase
}

func newPostingFixture(t *testing.T, rates usecase.RateService) *postingFixture {
	t.Helper()

	f := &postingFixture{
		accounts: mocks.NewMockAccountRepository(),
		txns:     mocks.NewMockTransactionRepository(),
		periods:  mocks.NewMockPeriodRepository(),
		outbox:   mocks.NewMockOutboxRepository(),
		audit:    mocks.NewMockAuditRepository(),
		idGen:    mocks.NewMockIDGenerator(),
	}

	f.uc = usecase.NewPostingUseCase(
		mocks.NewMockTransactionManager(),
		f.accounts,
		f.txns,
		f.periods,
		f.outbox,
		f.audit,
		rates,
		mocks.NewMockRetrier(),
		f.idGen,
		nil,
		"USD",
	)

	if err := f.periods.CreateBatch(context.Background(), []*domain.FiscalPeriod{{
		ID:        "period-2026-03",
		OrgID:     testOrgID,
		Name:      "FY2026 2026-03",
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodStatusOpen,
	}}); err != nil {
		t.Fatalf("seed period: %v", err)
	}

	return f
}

func (f *postingFixture) seedAccount(t *testing.T, id, code string, accType domain.AccountType, active bool) {
	t.Helper()
	if err := f.accounts.Create(context.Background(), &domain.Account{
		ID:       id,
		OrgID:    testOrgID,
		Code:     code,
		Name:     code,
		Type:     accType,
		Currency: "USD",
		Balance:  decimal.Zero,
		Active:   active,
	}); err != nil {
		t.Fatalf("seed account %s: %v", code, err)
	}
}

func (f *postingFixture) seedTransaction(t *testing.T, id string, status domain.TransactionStatus, entries []domain.Entry) {
	t.Helper()
	for i := range entries {
		entries[i].TransactionID = id
		entries[i].LineNumber = i + 1
	}
	if err := f.txns.Create(context.Background(), &domain.Transaction{
		ID:           id,
		OrgID:        testOrgID,
		Reference:    "TXN-" + id,
		Type:         domain.TransactionTypeJournal,
		Date:         testDate,
		Status:       status,
		Currency:     "USD",
		ExchangeRate: decimal.New(1, 0),
		Entries:      entries,
	}); err != nil {
		t.Fatalf("seed transaction %s: %v", id, err)
	}
}

func (f *postingFixture) balance(t *testing.T, id string) (decimal.Decimal, int64) {
	t.Helper()
	acc, err := f.accounts.GetByID(context.Background(), testOrgID, id)
	if err != nil {
		t.Fatalf("get account %s: %v", id, err)
	}
	return acc.Balance, acc.Version
}

func balancedEntries(debitAccount, creditAccount, amount string) []domain.Entry {
	return []domain.Entry{
		{AccountID: debitAccount, Debit: d(amount), Credit: decimal.Zero},
		{AccountID: creditAccount, Debit: decimal.Zero, Credit: d(amount)},
	}
}

func TestCreateTransaction(t *testing.T) {
	t.Run("base currency gets rate one", func(t *testing.T) {
		f := newPostingFixture(t, nil)

		txn, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
			OrgID:     testOrgID,
			Reference: "INV-100",
			Type:      domain.TransactionTypeExpense,
			Date:      testDate,
			Currency:  "USD",
			Entries: []usecase.EntryInput{
				{AccountID: "acc-exp", Debit: d("42.50")},
				{AccountID: "acc-cash", Credit: d("42.50")},
			},
		})
		if err != nil {
			t.Fatalf("CreateTransaction() error = %v", err)
		}

		if txn.Status != domain.StatusDraft {
			t.Errorf("status = %s, want draft", txn.Status)
		}
		if !txn.ExchangeRate.Equal(decimal.New(1, 0)) {
			t.Errorf("rate = %s, want 1", txn.ExchangeRate)
		}
		if !txn.ConvertedTotal.Equal(d("42.50")) {
			t.Errorf("converted total = %s, want 42.50", txn.ConvertedTotal)
		}
		if len(f.audit.Logs) != 1 || f.audit.Logs[0].Action != domain.AuditActionCreate {
			t.Errorf("expected one create audit entry, got %d", len(f.audit.Logs))
		}
	})

	t.Run("foreign currency snapshots rate at transaction date", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		rates := mocks.NewMockRateService(ctrl)
		rates.EXPECT().
			Rate(gomock.Any(), testOrgID, "EUR", "USD", testDate).
			Return(d("1.0850"), nil)

		f := newPostingFixture(t, rates)

		txn, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
			OrgID:    testOrgID,
			Type:     domain.TransactionTypeRevenue,
			Date:     testDate,
			Currency: "EUR",
			Entries: []usecase.EntryInput{
				{AccountID: "acc-cash", Debit: d("200.00")},
				{AccountID: "acc-rev", Credit: d("200.00")},
			},
		})
		if err != nil {
			t.Fatalf("CreateTransaction() error = %v", err)
		}

		if !txn.ExchangeRate.Equal(d("1.0850")) {
			t.Errorf("rate = %s, want 1.0850", txn.ExchangeRate)
		}
		if !txn.ConvertedTotal.Equal(d("217.00")) {
			t.Errorf("converted total = %s, want 217.00", txn.ConvertedTotal)
		}
	})

	t.Run("rejects entry with both sides set", func(t *testing.T) {
		f := newPostingFixture(t, nil)

		_, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
			OrgID: testOrgID,
			Type:  domain.TransactionTypeJournal,
			Date:  testDate,
			Entries: []usecase.EntryInput{
				{AccountID: "acc-a", Debit: d("10.00"), Credit: d("10.00")},
				{AccountID: "acc-b", Credit: d("10.00")},
			},
		})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("error = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		f := newPostingFixture(t, nil)

		_, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
			OrgID: testOrgID,
			Type:  "subscription",
			Date:  testDate,
		})
		if err == nil {
			t.Fatal("expected error for unknown type")
		}
	})
}

func TestUpdateDraftEntries(t *testing.T) {
	f := newPostingFixture(t, nil)
	f.seedTransaction(t, "txn-1", domain.StatusDraft, balancedEntries("acc-a", "acc-b", "50.00"))
	f.seedTransaction(t, "txn-2", domain.StatusApproved, balancedEntries("acc-a", "acc-b", "50.00"))

	t.Run("replaces draft entries", func(t *testing.T) {
		txn, err := f.uc.UpdateDraftEntries(context.Background(), testOrgID, "txn-1", []usecase.EntryInput{
			{AccountID: "acc-a", Debit: d("75.00")},
			{AccountID: "acc-b", Credit: d("75.00")},
		})
		if err != nil {
			t.Fatalf("UpdateDraftEntries() error = %v", err)
		}
		if !txn.DebitTotal().Equal(d("75.00")) {
			t.Errorf("debit total = %s, want 75.00", txn.DebitTotal())
		}
	})

	t.Run("non-draft is immutable", func(t *testing.T) {
		_, err := f.uc.UpdateDraftEntries(context.Background(), testOrgID, "txn-2", nil)
		if !errors.Is(err, domain.ErrEntriesImmutable) {
			t.Errorf("error = %v, want ErrEntriesImmutable", err)
		}
	})
}

func TestDeleteDraft(t *testing.T) {
	f := newPostingFixture(t, nil)
	f.seedTransaction(t, "txn-1", domain.StatusDraft, nil)
	f.seedTransaction(t, "txn-2", domain.StatusPosted, nil)

	if err := f.uc.DeleteDraft(context.Background(), testOrgID, "txn-1"); err != nil {
		t.Fatalf("DeleteDraft() error = %v", err)
	}
	if _, err := f.txns.GetByID(context.Background(), testOrgID, "txn-1"); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Error("draft still present after delete")
	}

	if err := f.uc.DeleteDraft(context.Background(), testOrgID, "txn-2"); !errors.Is(err, domain.ErrEntriesImmutable) {
		t.Errorf("deleting posted: error = %v, want ErrEntriesImmutable", err)
	}
}

func TestPost(t *testing.T) {
	t.Run("applies balances and versions atomically", func(t *testing.T) {
		f := newPostingFixture(t, nil)
		f.seedAccount(t, "acc-cash", "1000", domain.AccountTypeAsset, true)
		f.seedAccount(t, "acc-rev", "4000", domain.AccountTypeRevenue, true)
		f.seedTransaction(t, "txn-1", domain.StatusApproved, balancedEntries("acc-cash", "acc-rev", "150.00"))

		txn, err := f.uc.Post(context.Background(), testOrgID, "txn-1")
		if err != nil {
			t.Fatalf("Post() error = %v", err)
		}
		if txn.Status != domain.StatusPosted {
			t.Errorf("status = %s, want posted", txn.Status)
		}

		cash, cashVer := f.balance(t, "acc-cash")
		if !cash.Equal(d("150.00")) || cashVer != 1 {
			t.Errorf("cash = %s v%d, want 150.00 v1", cash, cashVer)
		}
		rev, revVer := f.balance(t, "acc-rev")
		if !rev.Equal(d("150.00")) || revVer != 1 {
			t.Errorf("revenue = %s v%d, want 150.00 v1", rev, revVer)
		}

		if len(f.outbox.Events) != 1 || f.outbox.Events[0].EventType != domain.EventTypeTransactionPosted {
			t.Errorf("expected one posted outbox event, got %d", len(f.outbox.Events))
		}
	})

	t.Run("credit to asset decreases its balance", func(t *testing.T) {
		f := newPostingFixture(t, nil)
		f.seedAccount(t, "acc-exp", "5000", domain.AccountTypeExpense, true)
		f.seedAccount(t, "acc-cash", "1000", domain.AccountTypeAsset, true)
		f.seedTransaction(t, "txn-1", domain.StatusApproved, balancedEntries("acc-exp", "acc-cash", "80.00"))

		if _, err := f.uc.Post(context.Background(), testOrgID, "txn-1"); err != nil {
			t.Fatalf("Post() error = %v", err)
		}

		cash, _ := f.balance(t, "acc-cash")
		if !cash.Equal(d("-80.00")) {
			t.Errorf("cash = %s, want -80.00", cash)
		}
		exp, _ := f.balance(t, "acc-exp")
		if !exp.Equal(d("80.00")) {
			t.Errorf("expense = %s, want 80.00", exp)
		}
	})

	t.Run("aggregates multiple entries per account", func(t *testing.T) {
		f := newPostingFixture(t, nil)
		f.seedAccount(t, "acc-cash", "1000", domain.AccountTypeAsset, true)
		f.seedAccount(t, "acc-rev", "4000", domain.AccountTypeRevenue, true)
		f.seedTransaction(t, "txn-1", domain.StatusApproved, []domain.Entry{
			{AccountID: "acc-cash", Debit: d("30.00")},
			{AccountID: "acc-cash", Debit: d("20.00")},
			{AccountID: "acc-rev", Credit: d("50.00")},
		})

		if _, err := f.uc.Post(context.Background(), testOrgID, "txn-1"); err != nil {
			t.Fatalf("Post() error = %v", err)
		}

		cash, cashVer := f.balance(t, "acc-cash")
		if !cash.Equal(d("50.00")) {
			t.Errorf("cash = %s, want 50.00", cash)
		}
		if cashVer != 1 {
			t.Errorf("cash version = %d, want one increment per posting", cashVer)
		}
	})

	t.Run("reposting is idempotent", func(t *testing.T) {
		f := newPostingFixture(t, nil)
		f.seedAccount(t, "acc-cash", "1000", domain.AccountTypeAsset, true)
		f.seedAccount(t, "acc-rev", "4000", domain.AccountTypeRevenue, true)
		f.seedTransaction(t, "txn-1", domain.StatusApproved, balancedEntries("acc-cash", "acc-rev", "150.00"))

		if _, err := f.uc.Post(context.Background(), testOrgID, "txn-1"); err != nil {
			t.Fatalf("first Post() error = %v", err)
		}
		txn, err := f.uc.Post(context.Background(), testOrgID, "txn-1")
		if err != nil {
			t.Fatalf("second Post() error = %v", err)
		}
		if txn.Status != domain.StatusPosted {
			t.Errorf("status = %s, want posted", txn.Status)
		}

		cash, cashVer := f.balance(t, "acc-cash")
		if !cash.Equal(d("150.00")) || cashVer != 1 {
			t.Errorf("cash = %s v%d after repost, want 150.00 v1", cash, cashVer)
		}
	})

	t.Run("draft cannot be posted directly", func(t *testing.T) {
		f := newPostingFixture(t, nil)
		f.seedTransaction(t, "txn-1", domain.StatusDraft, balancedEntries("acc-a", "acc-b", "10.00"))

		_, err := f.uc.Post(context.Background(), testOrgID, "txn-1")
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("error = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("imbalanced entries rejected with difference", func(t *testing.T) {
		f := newPostingFixture(t, nil)
		f.seedTransaction(t, "txn-1", domain.StatusApproved, []domain.Entry{
			{AccountID: "acc-a", Debit: d("110.00")},
			{AccountID: "acc-b", Credit: d("100.00")},
		})

		_, err := f.uc.Post(context.Background(), testOrgID, "txn-1")
		if !errors.Is(err, domain.ErrImbalancedEntries) {
			t.Fatalf("error = %v, want ErrImbalancedEntries", err)
		}

		var imbErr *domain.ImbalancedEntriesError
		if !errors.As(err, &imbErr) {
			t.Fatal("expected ImbalancedEntriesError")
		}
		if !imbErr.Difference.Equal(d("10.00")) {
			t.Errorf("difference = %s, want 10.00", imbErr.Difference)
		}
	})

	t.Run("locked period rejects posting without balance changes", func(t *testing.T) {
		f := newPostingFixture(t, nil)
		f.seedAccount(t, "acc-cash", "1000", domain.AccountTypeAsset, true)
		f.seedAccount(t, "acc-rev", "4000", domain.AccountTypeRevenue, true)
		f.seedTransaction(t, "txn-1", domain.StatusApproved, balancedEntries("acc-cash", "acc-rev", "150.00"))

		if err := f.periods.UpdateStatus(context.Background(), testOrgID, "period-2026-03", domain.PeriodStatusLocked, time.Now()); err != nil {
			t.Fatalf("lock period: %v", err)
		}

		_, err := f.uc.Post(context.Background(), testOrgID, "txn-1")
		if !errors.Is(err, domain.ErrPeriodLocked) {
			t.Errorf("error = %v, want ErrPeriodLocked", err)
		}

		cash, cashVer := f.balance(t, "acc-cash")
		if !cash.IsZero() || cashVer != 0 {
			t.Errorf("cash = %s v%d, want untouched", cash, cashVer)
		}
	})

	t.Run("period closing between validation and commit rejects posting", func(t *testing.T) {
		f := newPostingFixture(t, nil)
		f.seedAccount(t, "acc-cash", "1000", domain.AccountTypeAsset, true)
		f.seedAccount(t, "acc-rev", "4000", domain.AccountTypeRevenue, true)
		f.seedTransaction(t, "txn-1", domain.StatusApproved, balancedEntries("acc-cash", "acc-rev", "150.00"))

		// Read-path check sees an open period; the commit-time re-read sees it
		// closed, as if another caller closed it in between.
		f.periods.GetByDateTxFunc = func(ctx context.Context, tx usecase.Transaction, orgID string, date time.Time) (*domain.FiscalPeriod, error) {
			return &domain.FiscalPeriod{
				ID: "period-2026-03", OrgID: testOrgID, Name: "FY2026 2026-03",
				StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
				Status:    domain.PeriodStatusClosed,
			}, nil
		}

		_, err := f.uc.Post(context.Background(), testOrgID, "txn-1")
		if !errors.Is(err, domain.ErrPeriodClosed) {
			t.Errorf("error = %v, want ErrPeriodClosed", err)
		}

		cash, _ := f.balance(t, "acc-cash")
		if !cash.IsZero() {
			t.Errorf("cash = %s, want untouched", cash)
		}
	})

	t.Run("inactive account rejects posting", func(t *testing.T) {
		f := newPostingFixture(t, nil)
		f.seedAccount(t, "acc-cash", "1000", domain.AccountTypeAsset, false)
		f.seedAccount(t, "acc-rev", "4000", domain.AccountTypeRevenue, true)
		f.seedTransaction(t, "txn-1", domain.StatusApproved, balancedEntries("acc-cash", "acc-rev", "150.00"))

		_, err := f.uc.Post(context.Background(), testOrgID, "txn-1")
		if !errors.Is(err, domain.ErrInactiveAccount) {
			t.Errorf("error = %v, want ErrInactiveAccount", err)
		}
	})

	t.Run("unknown account rejects posting", func(t *testing.T) {
		f := newPostingFixture(t, nil)
		f.seedAccount(t, "acc-rev", "4000", domain.AccountTypeRevenue, true)
		f.seedTransaction(t, "txn-1", domain.StatusApproved, balancedEntries("acc-missing", "acc-rev", "150.00"))

		_, err := f.uc.Post(context.Background(), testOrgID, "txn-1")
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("error = %v, want ErrAccountNotFound", err)
		}
	})

	t.Run("exhausted retries surface as contention", func(t *testing.T) {
		f := newPostingFixture(t, nil)
		f.seedAccount(t, "acc-cash", "1000", domain.AccountTypeAsset, true)
		f.seedAccount(t, "acc-rev", "4000", domain.AccountTypeRevenue, true)
		f.seedTransaction(t, "txn-1", domain.StatusApproved, balancedEntries("acc-cash", "acc-rev", "150.00"))

		uc := usecase.NewPostingUseCase(
			mocks.NewMockTransactionManager(),
			f.accounts, f.txns, f.periods, f.outbox, f.audit,
			nil,
			&mocks.MockRetrier{RetryFunc: func(ctx context.Context, operation func() error) error {
				return domain.ErrContention
			}},
			f.idGen, nil, "USD",
		)

		_, err := uc.Post(context.Background(), testOrgID, "txn-1")
		if !errors.Is(err, domain.ErrContention) {
			t.Errorf("error = %v, want ErrContention", err)
		}
	})
}

func TestVoid(t *testing.T) {
	postedFixture := func(t *testing.T) *postingFixture {
		f := newPostingFixture(t, nil)
		f.seedAccount(t, "acc-cash", "1000", domain.AccountTypeAsset, true)
		f.seedAccount(t, "acc-rev", "4000", domain.AccountTypeRevenue, true)
		f.seedTransaction(t, "txn-1", domain.StatusApproved, balancedEntries("acc-cash", "acc-rev", "150.00"))
		if _, err := f.uc.Post(context.Background(), testOrgID, "txn-1"); err != nil {
			t.Fatalf("Post() error = %v", err)
		}
		return f
	}

	t.Run("creates compensating reversal and restores balances", func(t *testing.T) {
		f := postedFixture(t)

		reversal, err := f.uc.Void(context.Background(), testOrgID, "txn-1")
		if err != nil {
			t.Fatalf("Void() error = %v", err)
		}

		if reversal.ReversalOf != "txn-1" {
			t.Errorf("reversal of = %s, want txn-1", reversal.ReversalOf)
		}
		if reversal.Status != domain.StatusPosted {
			t.Errorf("reversal status = %s, want posted", reversal.Status)
		}
		if reversal.Reference != "TXN-txn-1-REV" {
			t.Errorf("reversal reference = %s", reversal.Reference)
		}

		// Debits and credits swap line by line.
		if !reversal.Entries[0].Credit.Equal(d("150.00")) || !reversal.Entries[0].Debit.IsZero() {
			t.Errorf("first reversal entry = debit %s credit %s", reversal.Entries[0].Debit, reversal.Entries[0].Credit)
		}

		original, err := f.txns.GetByID(context.Background(), testOrgID, "txn-1")
		if err != nil {
			t.Fatalf("get original: %v", err)
		}
		if original.Status != domain.StatusVoided {
			t.Errorf("original status = %s, want voided", original.Status)
		}

		cash, cashVer := f.balance(t, "acc-cash")
		if !cash.IsZero() {
			t.Errorf("cash = %s after void, want 0", cash)
		}
		if cashVer != 2 {
			t.Errorf("cash version = %d, want 2", cashVer)
		}
	})

	t.Run("voiding twice returns the same reversal", func(t *testing.T) {
		f := postedFixture(t)

		first, err := f.uc.Void(context.Background(), testOrgID, "txn-1")
		if err != nil {
			t.Fatalf("first Void() error = %v", err)
		}
		second, err := f.uc.Void(context.Background(), testOrgID, "txn-1")
		if err != nil {
			t.Fatalf("second Void() error = %v", err)
		}
		if first.ID != second.ID {
			t.Errorf("reversal IDs differ: %s vs %s", first.ID, second.ID)
		}

		cash, _ := f.balance(t, "acc-cash")
		if !cash.IsZero() {
			t.Errorf("cash = %s after double void, want 0", cash)
		}
	})

	t.Run("draft cannot be voided", func(t *testing.T) {
		f := newPostingFixture(t, nil)
		f.seedTransaction(t, "txn-1", domain.StatusDraft, nil)

		_, err := f.uc.Void(context.Background(), testOrgID, "txn-1")
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("error = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("void rejected when period no longer open", func(t *testing.T) {
		f := postedFixture(t)

		if err := f.periods.UpdateStatus(context.Background(), testOrgID, "period-2026-03", domain.PeriodStatusClosed, time.Now()); err != nil {
			t.Fatalf("close period: %v", err)
		}

		_, err := f.uc.Void(context.Background(), testOrgID, "txn-1")
		if !errors.Is(err, domain.ErrPeriodClosed) {
			t.Errorf("error = %v, want ErrPeriodClosed", err)
		}

		cash, _ := f.balance(t, "acc-cash")
		if !cash.Equal(d("150.00")) {
			t.Errorf("cash = %s, want unchanged 150.00", cash)
		}
	})
}

func TestConcurrentPostingNoDrift(t *testing.T) {
	f := newPostingFixture(t, nil)
	f.seedAccount(t, "acc-cash", "1000", domain.AccountTypeAsset, true)
	f.seedAccount(t, "acc-rev", "4000", domain.AccountTypeRevenue, true)

	const workers = 25
	for i := 0; i < workers; i++ {
		f.seedTransaction(t, fmt.Sprintf("txn-%d", i), domain.StatusApproved,
			balancedEntries("acc-cash", "acc-rev", "10.00"))
	}

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := f.uc.Post(context.Background(), testOrgID, id); err != nil {
				errs <- err
			}
		}(fmt.Sprintf("txn-%d", i))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Post() error = %v", err)
	}

	cash, cashVer := f.balance(t, "acc-cash")
	if !cash.Equal(d("250.00")) {
		t.Errorf("cash = %s, want 250.00 with no lost updates", cash)
	}
	if cashVer != workers {
		t.Errorf("cash version = %d, want %d", cashVer, workers)
	}
	rev, _ := f.balance(t, "acc-rev")
	if !rev.Equal(d("250.00")) {
		t.Errorf("revenue = %s, want 250.00", rev)
	}
}
