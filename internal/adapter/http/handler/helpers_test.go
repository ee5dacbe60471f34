package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/iho/ledgerbook/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"transaction not found", domain.ErrTransactionNotFound, http.StatusNotFound},
		{"period not found", domain.ErrPeriodNotFound, http.StatusNotFound},
		{"imbalanced entries", domain.ErrImbalancedEntries, http.StatusUnprocessableEntity},
		{"wrapped imbalance detail", &domain.ImbalancedEntriesError{}, http.StatusUnprocessableEntity},
		{"contention", domain.ErrContention, http.StatusConflict},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusConflict},
		{"wrapped transition detail", &domain.InvalidTransitionError{From: domain.StatusDraft, To: domain.StatusPosted}, http.StatusConflict},
		{"entries immutable", domain.ErrEntriesImmutable, http.StatusConflict},
		{"period closed", domain.ErrPeriodClosed, http.StatusConflict},
		{"period locked", domain.ErrPeriodLocked, http.StatusConflict},
		{"duplicate account code", domain.ErrDuplicateAccountCode, http.StatusConflict},
		{"insufficient entries", domain.ErrInsufficientEntries, http.StatusBadRequest},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"inactive account", domain.ErrInactiveAccount, http.StatusBadRequest},
		{"no open period", domain.ErrNoOpenPeriod, http.StatusBadRequest},
		{"rate unavailable", domain.ErrRateUnavailable, http.StatusBadRequest},
		{"wrapped rate unavailable", fmt.Errorf("%w: EUR/JPY", domain.ErrRateUnavailable), http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mapDomainError(tc.err); got != tc.expected {
				t.Fatalf("mapDomainError(%v) = %d, expected %d", tc.err, got, tc.expected)
			}
		})
	}
}
