package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/adapter/http/dto"
	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/usecase"
)

type stubAccountService struct {
	CreateAccountFunc     func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccountFunc        func(ctx context.Context, orgID, id string) (*domain.Account, error)
	GetAccountBalanceFunc func(ctx context.Context, orgID, id string, asOf time.Time) (decimal.Decimal, error)
	DeactivateFunc        func(ctx context.Context, orgID, id string) error
	ListAccountsFunc      func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
}

func (s *stubAccountService) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.CreateAccountFunc(ctx, input)
}

func (s *stubAccountService) GetAccount(ctx context.Context, orgID, id string) (*domain.Account, error) {
	return s.GetAccountFunc(ctx, orgID, id)
}

func (s *stubAccountService) GetAccountBalance(ctx context.Context, orgID, id string, asOf time.Time) (decimal.Decimal, error) {
	return s.GetAccountBalanceFunc(ctx, orgID, id, asOf)
}

func (s *stubAccountService) Deactivate(ctx context.Context, orgID, id string) error {
	return s.DeactivateFunc(ctx, orgID, id)
}

func (s *stubAccountService) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.ListAccountsFunc(ctx, input)
}

func accountRequest(h *AccountHandler, method, path, body string, withOrg bool) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Post("/accounts", h.Create)
	r.Get("/accounts/{id}", h.Get)
	r.Get("/accounts/{id}/balance", h.Balance)
	r.Post("/accounts/{id}/deactivate", h.Deactivate)
	r.Get("/accounts", h.List)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if withOrg {
		req.Header.Set(OrgIDHeader, "org-1")
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAccountCreate(t *testing.T) {
	t.Run("creates account", func(t *testing.T) {
		h := NewAccountHandler(&stubAccountService{
			CreateAccountFunc: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
				return &domain.Account{
					ID:       "acc-1",
					OrgID:    input.OrgID,
					Code:     input.Code,
					Name:     input.Name,
					Type:     input.Type,
					Currency: input.Currency,
					Balance:  decimal.Zero,
					Active:   true,
				}, nil
			},
		})

		body := `{"code": "1000", "name": "Cash", "type": "asset", "currency": "USD"}`
		rr := accountRequest(h, http.MethodPost, "/accounts", body, true)

		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
		}

		var resp dto.AccountResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.Code != "1000" || resp.Type != "asset" || !resp.Active {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("maps duplicate code to 409", func(t *testing.T) {
		h := NewAccountHandler(&stubAccountService{
			CreateAccountFunc: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
				return nil, domain.ErrDuplicateAccountCode
			},
		})

		body := `{"code": "1000", "name": "Cash", "type": "asset", "currency": "USD"}`
		rr := accountRequest(h, http.MethodPost, "/accounts", body, true)
		if rr.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rr.Code)
		}
	})
}

func TestAccountBalance(t *testing.T) {
	t.Run("running balance without as_of", func(t *testing.T) {
		h := NewAccountHandler(&stubAccountService{
			GetAccountBalanceFunc: func(ctx context.Context, orgID, id string, asOf time.Time) (decimal.Decimal, error) {
				if !asOf.IsZero() {
					t.Fatalf("expected zero asOf, got %v", asOf)
				}
				return decimal.RequireFromString("250.00"), nil
			},
		})

		rr := accountRequest(h, http.MethodGet, "/accounts/acc-1/balance", "", true)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}

		var resp dto.BalanceResponse
		json.Unmarshal(rr.Body.Bytes(), &resp)
		if !resp.Balance.Equal(decimal.RequireFromString("250.00")) || resp.AsOf != "" {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("historical balance with as_of", func(t *testing.T) {
		h := NewAccountHandler(&stubAccountService{
			GetAccountBalanceFunc: func(ctx context.Context, orgID, id string, asOf time.Time) (decimal.Decimal, error) {
				expected := time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)
				if !asOf.Equal(expected) {
					t.Fatalf("expected asOf %v, got %v", expected, asOf)
				}
				return decimal.RequireFromString("100.00"), nil
			},
		})

		rr := accountRequest(h, http.MethodGet, "/accounts/acc-1/balance?as_of=2026-02-28", "", true)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}

		var resp dto.BalanceResponse
		json.Unmarshal(rr.Body.Bytes(), &resp)
		if resp.AsOf != "2026-02-28" {
			t.Fatalf("expected as_of echo, got %+v", resp)
		}
	})

	t.Run("unknown account is 404", func(t *testing.T) {
		h := NewAccountHandler(&stubAccountService{
			GetAccountBalanceFunc: func(ctx context.Context, orgID, id string, asOf time.Time) (decimal.Decimal, error) {
				return decimal.Zero, domain.ErrAccountNotFound
			},
		})

		rr := accountRequest(h, http.MethodGet, "/accounts/acc-missing/balance", "", true)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
	})
}

func TestAccountDeactivate(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		DeactivateFunc: func(ctx context.Context, orgID, id string) error {
			if id != "acc-1" {
				t.Fatalf("unexpected id %s", id)
			}
			return nil
		},
	})

	rr := accountRequest(h, http.MethodPost, "/accounts/acc-1/deactivate", "", true)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}

func TestAccountList(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		ListAccountsFunc: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			if input.Limit != 2 || input.Offset != 1 {
				t.Fatalf("unexpected pagination: %+v", input)
			}
			return []*domain.Account{
				{ID: "acc-1", Code: "1000"},
				{ID: "acc-2", Code: "2000"},
			}, nil
		},
	})

	rr := accountRequest(h, http.MethodGet, "/accounts?limit=2&offset=1", "", true)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Total != 2 || resp.Accounts[0].Code != "1000" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
