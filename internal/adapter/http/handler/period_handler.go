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

// PeriodService defines the behavior needed by PeriodHandler.
type PeriodService interface {
	CreateFiscalYear(ctx context.Context, input usecase.CreateFiscalYearInput) ([]*domain.FiscalPeriod, error)
	SetPeriodStatus(ctx context.Context, input usecase.SetPeriodStatusInput) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context, orgID string, limit, offset int) ([]*domain.FiscalPeriod, error)
}

// PeriodHandler handles fiscal period HTTP requests.
type PeriodHandler struct {
	periodUC PeriodService
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periodUC PeriodService) *PeriodHandler {
	return &PeriodHandler{periodUC: periodUC}
}

// CreateFiscalYear generates the monthly periods of a fiscal year.
func (h *PeriodHandler) CreateFiscalYear(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	var req dto.CreateFiscalYearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(org)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	periods, err := h.periodUC.CreateFiscalYear(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create fiscal year", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PeriodsFromDomain(periods))
}

// SetStatus transitions a period between open, closed and locked.
func (h *PeriodHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	var req dto.SetPeriodStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	period, err := h.periodUC.SetPeriodStatus(r.Context(), usecase.SetPeriodStatusInput{
		OrgID:       org,
		PeriodID:    chi.URLParam(r, "id"),
		Status:      domain.PeriodStatus(req.Status),
		AdminReopen: req.AdminReopen,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to set period status", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodFromDomain(period))
}

// List lists fiscal periods in start date order.
func (h *PeriodHandler) List(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	periods, err := h.periodUC.ListPeriods(r.Context(), org,
		parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list periods", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodsFromDomain(periods))
}
