package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledgerbook/internal/adapter/http/dto"
	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/usecase"
)

// PostingService defines the posting-engine behavior needed by TransactionHandler.
type PostingService interface {
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, orgID, id string) (*domain.Transaction, error)
	UpdateDraftEntries(ctx context.Context, orgID, id string, entries []usecase.EntryInput) (*domain.Transaction, error)
	DeleteDraft(ctx context.Context, orgID, id string) error
	Post(ctx context.Context, orgID, id string) (*domain.Transaction, error)
	Void(ctx context.Context, orgID, id string) (*domain.Transaction, error)
}

// WorkflowService defines the approval-workflow behavior needed by TransactionHandler.
type WorkflowService interface {
	Submit(ctx context.Context, orgID, id string) (*domain.Transaction, error)
	Approve(ctx context.Context, orgID, id string) (*domain.Transaction, error)
	Reject(ctx context.Context, orgID, id string) (*domain.Transaction, error)
	BulkApprove(ctx context.Context, orgID string, ids []string) (*usecase.BulkApproveResult, error)
	ListByStatus(ctx context.Context, orgID string, status domain.TransactionStatus, limit, offset int) ([]*domain.Transaction, error)
	History(ctx context.Context, orgID, id string) ([]*domain.AuditLog, error)
}

// TransactionHandler handles transaction lifecycle HTTP requests.
type TransactionHandler struct {
	postingUC  PostingService
	workflowUC WorkflowService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(postingUC PostingService, workflowUC WorkflowService) *TransactionHandler {
	return &TransactionHandler{postingUC: postingUC, workflowUC: workflowUC}
}

// Create creates a draft transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(org)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	txn, err := h.postingUC.CreateTransaction(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Get retrieves a transaction with its entries.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	txn, err := h.postingUC.GetTransaction(r.Context(), org, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// UpdateEntries replaces the entry lines of a draft.
func (h *TransactionHandler) UpdateEntries(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	var req dto.UpdateEntriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.postingUC.UpdateDraftEntries(r.Context(), org, chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Delete removes a draft transaction.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	if err := h.postingUC.DeleteDraft(r.Context(), org, chi.URLParam(r, "id")); err != nil {
		writeError(w, mapDomainError(err), "failed to delete transaction", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Submit moves a draft to pending.
func (h *TransactionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.workflowUC.Submit, "failed to submit transaction")
}

// Approve moves a pending transaction to approved.
func (h *TransactionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.workflowUC.Approve, "failed to approve transaction")
}

// Reject returns a pending transaction to draft.
func (h *TransactionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.workflowUC.Reject, "failed to reject transaction")
}

// Post posts an approved transaction to the ledger.
func (h *TransactionHandler) Post(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.postingUC.Post, "failed to post transaction")
}

// Void voids a posted transaction and returns the posted reversal.
func (h *TransactionHandler) Void(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.postingUC.Void, "failed to void transaction")
}

func (h *TransactionHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, orgID, id string) (*domain.Transaction, error),
	message string,
) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	txn, err := fn(r.Context(), org, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), message, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// BulkApprove approves a batch of pending transactions, isolating failures
// per id.
func (h *TransactionHandler) BulkApprove(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	var req dto.BulkApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if len(req.TransactionIDs) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request", "transaction_ids must not be empty")
		return
	}

	result, err := h.workflowUC.BulkApprove(r.Context(), org, req.TransactionIDs)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to bulk approve", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BulkApproveFromResult(result))
}

// List lists transactions filtered by status, newest first.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	status := domain.TransactionStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.StatusPending
	}

	txns, err := h.workflowUC.ListByStatus(r.Context(), org, status,
		parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txns),
		Total:        int64(len(txns)),
	})
}

// History returns the audit trail of a transaction.
func (h *TransactionHandler) History(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	logs, err := h.workflowUC.History(r.Context(), org, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}
