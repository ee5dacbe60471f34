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

// DimensionService defines the behavior needed by DimensionHandler.
type DimensionService interface {
	CreateDimension(ctx context.Context, orgID, name string) (*domain.Dimension, error)
	CreateValue(ctx context.Context, dimensionID, name string) (*domain.DimensionValue, error)
	ListValues(ctx context.Context, dimensionID string) ([]*domain.DimensionValue, error)
	CreateBudgetLine(ctx context.Context, input usecase.CreateBudgetLineInput) (*domain.BudgetLine, error)
}

// DimensionHandler handles dimension and budget HTTP requests.
type DimensionHandler struct {
	dimensionUC DimensionService
}

// NewDimensionHandler creates a new DimensionHandler.
func NewDimensionHandler(dimensionUC DimensionService) *DimensionHandler {
	return &DimensionHandler{dimensionUC: dimensionUC}
}

// Create registers a reporting dimension.
func (h *DimensionHandler) Create(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	var req dto.CreateDimensionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	dim, err := h.dimensionUC.CreateDimension(r.Context(), org, req.Name)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create dimension", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DimensionFromDomain(dim))
}

// CreateValue adds a value to a dimension.
func (h *DimensionHandler) CreateValue(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDimensionValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	val, err := h.dimensionUC.CreateValue(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create dimension value", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DimensionValueFromDomain(val))
}

// ListValues lists the values of a dimension.
func (h *DimensionHandler) ListValues(w http.ResponseWriter, r *http.Request) {
	values, err := h.dimensionUC.ListValues(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list dimension values", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DimensionValuesFromDomain(values))
}

// CreateBudgetLine creates a spend limit for an account.
func (h *DimensionHandler) CreateBudgetLine(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	var req dto.CreateBudgetLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(org)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	line, err := h.dimensionUC.CreateBudgetLine(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create budget line", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BudgetLineFromDomain(line))
}
