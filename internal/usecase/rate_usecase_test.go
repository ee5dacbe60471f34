package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/usecase"
	"github.com/iho/ledgerbook/internal/usecase/mocks"
)

func newRateFixture(t *testing.T, cache usecase.Cache) (*usecase.RateUseCase, *mocks.MockRateRepository) {
	t.Helper()
	repo := mocks.NewMockRateRepository()
	uc := usecase.NewRateUseCase(repo, cache, mocks.NewMockIDGenerator(), nil, "USD")
	return uc, repo
}

func addRate(t *testing.T, uc *usecase.RateUseCase, from, to, rate string, effective time.Time) {
	t.Helper()
	_, err := uc.AddRate(context.Background(), usecase.AddRateInput{
		OrgID:         testOrgID,
		FromCurrency:  from,
		ToCurrency:    to,
		Rate:          d(rate),
		EffectiveDate: effective,
	})
	if err != nil {
		t.Fatalf("AddRate(%s/%s) error = %v", from, to, err)
	}
}

func TestAddRate(t *testing.T) {
	uc, _ := newRateFixture(t, nil)

	t.Run("rejects identical currencies", func(t *testing.T) {
		_, err := uc.AddRate(context.Background(), usecase.AddRateInput{
			OrgID: testOrgID, FromCurrency: "USD", ToCurrency: "USD", Rate: d("1"),
		})
		if err == nil {
			t.Fatal("expected error for identical currencies")
		}
	})

	t.Run("rejects non-positive rate", func(t *testing.T) {
		_, err := uc.AddRate(context.Background(), usecase.AddRateInput{
			OrgID: testOrgID, FromCurrency: "EUR", ToCurrency: "USD", Rate: d("0"),
		})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("error = %v, want ErrInvalidAmount", err)
		}
	})
}

func TestRate(t *testing.T) {
	jan10 := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	jan20 := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

	t.Run("same currency is one", func(t *testing.T) {
		uc, _ := newRateFixture(t, nil)
		rate, err := uc.Rate(context.Background(), testOrgID, "USD", "USD", jan10)
		if err != nil {
			t.Fatalf("Rate() error = %v", err)
		}
		if !rate.Equal(decimal.New(1, 0)) {
			t.Errorf("rate = %s, want 1", rate)
		}
	})

	t.Run("picks most recent rate at or before date", func(t *testing.T) {
		uc, _ := newRateFixture(t, nil)
		addRate(t, uc, "EUR", "USD", "1.0500", jan10)
		addRate(t, uc, "EUR", "USD", "1.0900", jan20)

		rate, err := uc.Rate(context.Background(), testOrgID, "EUR", "USD", jan10.AddDate(0, 0, 5))
		if err != nil {
			t.Fatalf("Rate() error = %v", err)
		}
		if !rate.Equal(d("1.0500")) {
			t.Errorf("rate = %s, want 1.0500 (jan 20 rate not yet effective)", rate)
		}

		rate, err = uc.Rate(context.Background(), testOrgID, "EUR", "USD", jan20)
		if err != nil {
			t.Fatalf("Rate() error = %v", err)
		}
		if !rate.Equal(d("1.0900")) {
			t.Errorf("rate = %s, want 1.0900", rate)
		}
	})

	t.Run("no rate before date is unavailable", func(t *testing.T) {
		uc, _ := newRateFixture(t, nil)
		addRate(t, uc, "EUR", "USD", "1.0500", jan20)

		_, err := uc.Rate(context.Background(), testOrgID, "EUR", "USD", jan10)
		if !errors.Is(err, domain.ErrRateUnavailable) {
			t.Errorf("error = %v, want ErrRateUnavailable", err)
		}
	})

	t.Run("triangulates through base currency at full precision", func(t *testing.T) {
		uc, _ := newRateFixture(t, nil)
		addRate(t, uc, "EUR", "USD", "1.0850", jan10)
		addRate(t, uc, "USD", "GBP", "0.7900", jan10)

		rate, err := uc.Rate(context.Background(), testOrgID, "EUR", "GBP", jan10)
		if err != nil {
			t.Fatalf("Rate() error = %v", err)
		}
		if !rate.Equal(d("1.0850").Mul(d("0.7900"))) {
			t.Errorf("rate = %s, want 1.0850*0.7900 unrounded", rate)
		}
	})

	t.Run("direct rate wins over triangulation", func(t *testing.T) {
		uc, _ := newRateFixture(t, nil)
		addRate(t, uc, "EUR", "GBP", "0.8600", jan10)
		addRate(t, uc, "EUR", "USD", "1.0850", jan10)
		addRate(t, uc, "USD", "GBP", "0.7900", jan10)

		rate, err := uc.Rate(context.Background(), testOrgID, "EUR", "GBP", jan10)
		if err != nil {
			t.Fatalf("Rate() error = %v", err)
		}
		if !rate.Equal(d("0.8600")) {
			t.Errorf("rate = %s, want direct 0.8600", rate)
		}
	})

	t.Run("missing leg is unavailable", func(t *testing.T) {
		uc, _ := newRateFixture(t, nil)
		addRate(t, uc, "EUR", "USD", "1.0850", jan10)

		_, err := uc.Rate(context.Background(), testOrgID, "EUR", "GBP", jan10)
		if !errors.Is(err, domain.ErrRateUnavailable) {
			t.Errorf("error = %v, want ErrRateUnavailable", err)
		}
	})

	t.Run("second lookup hits the cache", func(t *testing.T) {
		cache := mocks.NewMockCache()
		uc, repo := newRateFixture(t, cache)
		addRate(t, uc, "EUR", "USD", "1.0850", jan10)

		if _, err := uc.Rate(context.Background(), testOrgID, "EUR", "USD", jan10); err != nil {
			t.Fatalf("first Rate() error = %v", err)
		}

		repo.GetAsOfFunc = func(ctx context.Context, orgID, from, to string, asOf time.Time) (*domain.ExchangeRate, error) {
			t.Error("repository queried despite cached rate")
			return nil, domain.ErrRateUnavailable
		}

		rate, err := uc.Rate(context.Background(), testOrgID, "EUR", "USD", jan10)
		if err != nil {
			t.Fatalf("second Rate() error = %v", err)
		}
		if !rate.Equal(d("1.0850")) {
			t.Errorf("cached rate = %s, want 1.0850", rate)
		}
	})
}

func TestConvert(t *testing.T) {
	jan10 := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("rounds half to even once at display scale", func(t *testing.T) {
		uc, _ := newRateFixture(t, nil)
		addRate(t, uc, "EUR", "USD", "1.0850", jan10)

		// 100.30 * 1.0850 = 108.8255, banker's rounding gives 108.82 not 108.83.
		got, err := uc.Convert(context.Background(), testOrgID, d("100.30"), "EUR", "USD", jan10)
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if !got.Equal(d("108.82")) {
			t.Errorf("converted = %s, want 108.82", got)
		}
	})

	t.Run("round trip drifts at most one display unit", func(t *testing.T) {
		uc, _ := newRateFixture(t, nil)
		addRate(t, uc, "EUR", "USD", "1.0850", jan10)

		inverse := decimal.New(1, 0).Div(d("1.0850"))
		if _, err := uc.AddRate(context.Background(), usecase.AddRateInput{
			OrgID: testOrgID, FromCurrency: "USD", ToCurrency: "EUR",
			Rate: inverse, EffectiveDate: jan10,
		}); err != nil {
			t.Fatalf("AddRate(USD/EUR) error = %v", err)
		}

		amounts := []string{"0.01", "1.00", "99.99", "1234.56", "100000.00"}
		for _, a := range amounts {
			there, err := uc.Convert(context.Background(), testOrgID, d(a), "EUR", "USD", jan10)
			if err != nil {
				t.Fatalf("Convert(%s) error = %v", a, err)
			}
			back, err := uc.Convert(context.Background(), testOrgID, there, "USD", "EUR", jan10)
			if err != nil {
				t.Fatalf("Convert back(%s) error = %v", a, err)
			}

			drift := back.Sub(d(a)).Abs()
			if drift.GreaterThan(domain.SmallestDisplayUnit()) {
				t.Errorf("round trip of %s drifted %s, want at most one display unit", a, drift)
			}
		}
	})
}
