package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledgerbook/internal/adapter/http/dto"
	"github.com/iho/ledgerbook/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	TrialBalance(ctx context.Context, orgID string, from, to time.Time) (*usecase.TrialBalance, error)
	TypeTotals(ctx context.Context, orgID string, from, to time.Time) ([]usecase.TypeTotal, error)
	DimensionBreakdown(ctx context.Context, orgID, dimensionID string, from, to time.Time) ([]usecase.DimensionTotalsRow, error)
	BudgetVariances(ctx context.Context, orgID string) ([]usecase.BudgetVariance, error)
}

// ReportHandler handles reporting HTTP requests.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// reportRange parses the from/to query parameters. Missing bounds default to
// an open range.
func reportRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, hasFrom, err := parseDateQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date", err.Error())
		return time.Time{}, time.Time{}, false
	}
	to, hasTo, err := parseDateQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date", err.Error())
		return time.Time{}, time.Time{}, false
	}

	if !hasFrom {
		from = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	if !hasTo {
		to = time.Now().UTC()
	}

	return from, to, true
}

// TrialBalance returns per-account debit and credit totals over a range.
func (h *ReportHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	from, to, ok := reportRange(w, r)
	if !ok {
		return
	}

	tb, err := h.reportUC.TrialBalance(r.Context(), org, from, to)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute trial balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromUseCase(tb))
}

// TypeTotals returns net balances aggregated per account type.
func (h *ReportHandler) TypeTotals(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	from, to, ok := reportRange(w, r)
	if !ok {
		return
	}

	totals, err := h.reportUC.TypeTotals(r.Context(), org, from, to)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute type totals", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TypeTotalsFromUseCase(totals))
}

// DimensionBreakdown returns totals per value of a dimension.
func (h *ReportHandler) DimensionBreakdown(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	from, to, ok := reportRange(w, r)
	if !ok {
		return
	}

	rows, err := h.reportUC.DimensionBreakdown(r.Context(), org, chi.URLParam(r, "id"), from, to)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute dimension breakdown", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DimensionTotalsFromUseCase(rows))
}

// BudgetVariances compares each budget line against actual posted spend.
func (h *ReportHandler) BudgetVariances(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	variances, err := h.reportUC.BudgetVariances(r.Context(), org)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute budget variances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetVariancesFromUseCase(variances))
}
