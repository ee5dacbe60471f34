package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/tests/testutil"
)

func TestConcurrentPosting(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	stack := newLedgerStack(testDB)

	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	testDB.CreateOpenPeriod(ctx, testOrg, "2026-03",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))

	cash := testDB.CreateTestAccount(ctx, testOrg, "1000", domain.AccountTypeAsset, "USD")
	revenue := testDB.CreateTestAccount(ctx, testOrg, "4000", domain.AccountTypeRevenue, "USD")

	const numTransactions = 50
	amount := decimal.NewFromInt(10)

	// Prepare approved transactions sequentially, then post them all at once.
	ids := make([]string, 0, numTransactions)
	for range numTransactions {
		txn := balancedDraft(ctx, t, stack, cash.ID, revenue.ID, amount, date)
		if _, err := stack.workflow.Submit(ctx, testOrg, txn.ID); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		if _, err := stack.workflow.Approve(ctx, testOrg, txn.ID); err != nil {
			t.Fatalf("approve failed: %v", err)
		}
		ids = append(ids, txn.ID)
	}

	var (
		wg           sync.WaitGroup
		successCount atomic.Int32
		errorCount   atomic.Int32
	)

	wg.Add(numTransactions)
	for _, id := range ids {
		go func() {
			defer wg.Done()

			if _, err := stack.posting.Post(ctx, testOrg, id); err != nil {
				errorCount.Add(1)
			} else {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	// The retrier absorbs version conflicts; every post must land.
	if successCount.Load() != int32(numTransactions) {
		t.Errorf("expected %d successful posts, got %d (errors: %d)",
			numTransactions, successCount.Load(), errorCount.Load())
	}

	want := amount.Mul(decimal.NewFromInt(numTransactions))

	cashAfter, err := stack.accountRepo.GetByID(ctx, testOrg, cash.ID)
	if err != nil {
		t.Fatalf("failed to reload cash account: %v", err)
	}
	if !cashAfter.Balance.Equal(want) {
		t.Errorf("expected cash balance %s, got %s", want, cashAfter.Balance)
	}

	revenueAfter, err := stack.accountRepo.GetByID(ctx, testOrg, revenue.ID)
	if err != nil {
		t.Fatalf("failed to reload revenue account: %v", err)
	}
	if !revenueAfter.Balance.Equal(want) {
		t.Errorf("expected revenue balance %s, got %s", want, revenueAfter.Balance)
	}
}

func TestConcurrentDoublePost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	stack := newLedgerStack(testDB)

	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	testDB.CreateOpenPeriod(ctx, testOrg, "2026-03",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))

	cash := testDB.CreateTestAccount(ctx, testOrg, "1000", domain.AccountTypeAsset, "USD")
	revenue := testDB.CreateTestAccount(ctx, testOrg, "4000", domain.AccountTypeRevenue, "USD")

	txn := balancedDraft(ctx, t, stack, cash.ID, revenue.ID, decimal.NewFromInt(100), date)
	if _, err := stack.workflow.Submit(ctx, testOrg, txn.ID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := stack.workflow.Approve(ctx, testOrg, txn.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	// Race two posts of the same transaction. Both must succeed and the
	// entries must apply exactly once.
	const racers = 10

	var wg sync.WaitGroup
	var failures atomic.Int32

	wg.Add(racers)
	for range racers {
		go func() {
			defer wg.Done()

			if _, err := stack.posting.Post(ctx, testOrg, txn.ID); err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	if failures.Load() != 0 {
		t.Errorf("expected all racing posts to succeed, got %d failures", failures.Load())
	}

	cashAfter, err := stack.accountRepo.GetByID(ctx, testOrg, cash.ID)
	if err != nil {
		t.Fatalf("failed to reload cash account: %v", err)
	}
	if !cashAfter.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected balance applied exactly once (100), got %s", cashAfter.Balance)
	}
}
