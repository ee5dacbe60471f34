package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/domain"
)

// AccountUseCase manages the chart of accounts.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	reportRepo  ReportRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(txManager TransactionManager, accountRepo AccountRepository, reportRepo ReportRepository, outboxRepo OutboxRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		reportRepo:  reportRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	OrgID    string
	Code     string
	Name     string
	Type     domain.AccountType
	Currency string
}

// CreateAccount creates an active account with a zero balance. The (org,
// code) pair must be unique.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("unknown account type %q", input.Type)
	}

	if _, err := uc.accountRepo.GetByCode(ctx, input.OrgID, input.Code); err == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateAccountCode, input.Code)
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		OrgID:     input.OrgID,
		Code:      input.Code,
		Name:      input.Name,
		Type:      input.Type,
		Currency:  input.Currency,
		Balance:   decimal.Zero,
		Version:   0,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := uc.accountRepo.CreateTx(ctx, tx, account); err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountCreated,
		Payload: map[string]any{
			"account_id": account.ID,
			"org_id":     account.OrgID,
			"code":       account.Code,
			"type":       string(account.Type),
			"currency":   account.Currency,
		},
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID within an organization.
func (uc *AccountUseCase) GetAccount(ctx context.Context, orgID, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, orgID, id)
}

// GetAccountBalance returns the account balance. With a non-zero asOf the
// balance is reconstructed from posted entries up to that date; otherwise the
// running balance is returned.
func (uc *AccountUseCase) GetAccountBalance(ctx context.Context, orgID, id string, asOf time.Time) (decimal.Decimal, error) {
	account, err := uc.accountRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return decimal.Zero, err
	}

	if asOf.IsZero() {
		return account.Balance, nil
	}

	return uc.reportRepo.BalanceAsOf(ctx, orgID, id, asOf)
}

// Deactivate marks an account inactive. Inactive accounts reject new
// postings but keep their history.
func (uc *AccountUseCase) Deactivate(ctx context.Context, orgID, id string) error {
	if _, err := uc.accountRepo.GetByID(ctx, orgID, id); err != nil {
		return err
	}

	return uc.accountRepo.SetActive(ctx, orgID, id, false, time.Now().UTC())
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	OrgID  string
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.accountRepo.List(ctx, input.OrgID, input.Limit, input.Offset)
}
