package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/adapter/http/dto"
	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/usecase"
)

// RateManager defines the behavior needed by RateHandler.
type RateManager interface {
	AddRate(ctx context.Context, input usecase.AddRateInput) (*domain.ExchangeRate, error)
	Convert(ctx context.Context, orgID string, amount decimal.Decimal, from, to string, asOf time.Time) (decimal.Decimal, error)
}

// RateHandler handles exchange rate HTTP requests.
type RateHandler struct {
	rateUC RateManager
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(rateUC RateManager) *RateHandler {
	return &RateHandler{rateUC: rateUC}
}

// Create registers an exchange rate effective from a date.
func (h *RateHandler) Create(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	var req dto.AddRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(org)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	rate, err := h.rateUC.AddRate(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add rate", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RateFromDomain(rate))
}

// Convert converts an amount between currencies at a date.
func (h *RateHandler) Convert(w http.ResponseWriter, r *http.Request) {
	org := orgID(w, r)
	if org == "" {
		return
	}

	q := r.URL.Query()
	from := q.Get("from")
	to := q.Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "invalid request", "from and to currencies are required")
		return
	}

	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	asOf, hasAsOf, err := parseDateQuery(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of date", err.Error())
		return
	}
	if !hasAsOf {
		asOf = time.Now().UTC()
	}

	converted, err := h.rateUC.Convert(r.Context(), org, amount, from, to, asOf)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to convert", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConversionResponse{
		From:      from,
		To:        to,
		Amount:    amount,
		Converted: converted,
		AsOf:      asOf.Format(time.DateOnly),
	})
}
