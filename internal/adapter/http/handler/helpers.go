package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/ledgerbook/internal/adapter/http/dto"
	"github.com/iho/ledgerbook/internal/domain"
)

// OrgIDHeader carries the organization scope of a request.
const OrgIDHeader = "X-Org-ID"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// orgID extracts the organization scope from the request headers. An empty
// return means the caller already got a 400.
func orgID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(OrgIDHeader)
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing organization", OrgIDHeader+" header is required")
	}
	return id
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrPeriodNotFound),
		errors.Is(err, domain.ErrDimensionValueNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrImbalancedEntries):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrContention),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrEntriesImmutable),
		errors.Is(err, domain.ErrPeriodClosed),
		errors.Is(err, domain.ErrPeriodLocked),
		errors.Is(err, domain.ErrDuplicateAccountCode):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientEntries),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInactiveAccount),
		errors.Is(err, domain.ErrOrgMismatch),
		errors.Is(err, domain.ErrNoOpenPeriod),
		errors.Is(err, domain.ErrRateUnavailable),
		errors.Is(err, domain.ErrInvalidAllocationInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseDateQuery parses a YYYY-MM-DD query parameter. A missing parameter
// returns the zero time with ok false only when required.
func parseDateQuery(r *http.Request, key string) (time.Time, bool, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return time.Time{}, false, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, val, time.UTC)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
