package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/infrastructure/metrics"
)

// WorkflowUseCase drives the transaction approval lifecycle:
// draft → pending → approved, with pending → draft on reject.
type WorkflowUseCase struct {
	txManager TransactionManager
	txnRepo   TransactionRepository
	auditRepo AuditRepository
	idGen     IDGenerator
	metrics   *metrics.Metrics
}

// NewWorkflowUseCase creates a new WorkflowUseCase.
func NewWorkflowUseCase(
	txManager TransactionManager,
	txnRepo TransactionRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *WorkflowUseCase {
	return &WorkflowUseCase{
		txManager: txManager,
		txnRepo:   txnRepo,
		auditRepo: auditRepo,
		idGen:     idGen,
		metrics:   m,
	}
}

// Submit moves a draft transaction to pending. Entry invariants are checked
// here so malformed drafts never enter the approval queue.
func (uc *WorkflowUseCase) Submit(ctx context.Context, orgID, id string) (*domain.Transaction, error) {
	return uc.transition(ctx, orgID, id, domain.StatusPending, domain.AuditActionSubmit, true)
}

// Approve moves a pending transaction to approved.
func (uc *WorkflowUseCase) Approve(ctx context.Context, orgID, id string) (*domain.Transaction, error) {
	return uc.transition(ctx, orgID, id, domain.StatusApproved, domain.AuditActionApprove, true)
}

// Reject returns a pending transaction to draft for correction.
func (uc *WorkflowUseCase) Reject(ctx context.Context, orgID, id string) (*domain.Transaction, error) {
	return uc.transition(ctx, orgID, id, domain.StatusDraft, domain.AuditActionReject, false)
}

func (uc *WorkflowUseCase) transition(
	ctx context.Context,
	orgID, id string,
	target domain.TransactionStatus,
	action domain.AuditAction,
	validateEntries bool,
) (*domain.Transaction, error) {
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

	from := txn.Status
	if _, err := from.Transition(target); err != nil {
		return nil, err
	}

	if validateEntries && target != domain.StatusDraft {
		if err := txn.ValidateEntries(); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	if err := uc.txnRepo.UpdateStatus(txCtx, tx, txn.ID, target, now); err != nil {
		return nil, err
	}

	if err := uc.auditRepo.CreateTx(txCtx, tx, &domain.AuditLog{
		ID:            uc.idGen.Generate(),
		OrgID:         orgID,
		TransactionID: txn.ID,
		Action:        action,
		FromStatus:    from,
		ToStatus:      target,
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WorkflowActions.WithLabelValues(string(action)).Inc()
	}

	txn.Status = target
	txn.UpdatedAt = now

	return txn, nil
}

// BulkApproveFailure describes one transaction that could not be approved.
type BulkApproveFailure struct {
	ID     string
	Reason string
}

// BulkApproveResult partitions a bulk request into succeeded and failed ids.
type BulkApproveResult struct {
	Approved []string
	Failed   []BulkApproveFailure
}

// Failure reasons reported by BulkApprove.
const (
	BulkReasonNotFound          = "NotFound"
	BulkReasonInvalidTransition = "InvalidTransition"
	BulkReasonValidationFailed  = "ValidationFailed"
	BulkReasonInternal          = "Internal"
)

// BulkApprove approves each pending transaction independently. One bad id
// never fails the batch; the response always partitions into approved and
// failed with a per-id reason.
func (uc *WorkflowUseCase) BulkApprove(ctx context.Context, orgID string, ids []string) (*BulkApproveResult, error) {
	result := &BulkApproveResult{
		Approved: make([]string, 0, len(ids)),
		Failed:   make([]BulkApproveFailure, 0),
	}

	for _, id := range ids {
		if _, err := uc.Approve(ctx, orgID, id); err != nil {
			result.Failed = append(result.Failed, BulkApproveFailure{
				ID:     id,
				Reason: bulkReason(err),
			})
			continue
		}
		result.Approved = append(result.Approved, id)
	}

	return result, nil
}

// ListByStatus lists transactions in a given status, newest first.
func (uc *WorkflowUseCase) ListByStatus(ctx context.Context, orgID string, status domain.TransactionStatus, limit, offset int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return uc.txnRepo.ListByStatus(ctx, orgID, status, limit, offset)
}

// History returns the audit trail of a transaction.
func (uc *WorkflowUseCase) History(ctx context.Context, orgID, id string) ([]*domain.AuditLog, error) {
	return uc.auditRepo.List(ctx, domain.AuditFilter{OrgID: orgID, TransactionID: id})
}

func bulkReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		return BulkReasonNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return BulkReasonInvalidTransition
	case errors.Is(err, domain.ErrImbalancedEntries),
		errors.Is(err, domain.ErrInsufficientEntries),
		errors.Is(err, domain.ErrInvalidAmount):
		return BulkReasonValidationFailed
	default:
		return BulkReasonInternal
	}
}
