package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/adapter/http/dto"
	"github.com/iho/ledgerbook/internal/domain"
)

// AllocationHandler splits totals across lines without rounding loss.
type AllocationHandler struct{}

// NewAllocationHandler creates a new AllocationHandler.
func NewAllocationHandler() *AllocationHandler {
	return &AllocationHandler{}
}

// Allocate splits a total across weighted lines, or equally when only a line
// count is given. The returned amounts always sum to the original total.
func (h *AllocationHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req dto.AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var (
		amounts []decimal.Decimal
		err     error
	)
	if len(req.Weights) > 0 {
		amounts, err = domain.Allocate(req.Total, req.Weights)
	} else {
		amounts, err = domain.AllocateEqual(req.Total, req.Lines)
	}
	if err != nil {
		writeError(w, mapDomainError(err), "failed to allocate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AllocateResponse{Amounts: amounts})
}
