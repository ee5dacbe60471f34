package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/usecase"
	"github.com/iho/ledgerbook/internal/usecase/mocks"
)

func newPeriodFixture(t *testing.T) (*usecase.PeriodUseCase, *mocks.MockPeriodRepository) {
	t.Helper()
	repo := mocks.NewMockPeriodRepository()
	uc := usecase.NewPeriodUseCase(mocks.NewMockTransactionManager(), repo, mocks.NewMockOutboxRepository(), mocks.NewMockIDGenerator())
	return uc, repo
}

func TestCreateFiscalYear(t *testing.T) {
	t.Run("generates twelve monthly periods", func(t *testing.T) {
		uc, _ := newPeriodFixture(t)

		periods, err := uc.CreateFiscalYear(context.Background(), usecase.CreateFiscalYearInput{
			OrgID: testOrgID,
			Name:  "FY2026",
			Start: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("CreateFiscalYear() error = %v", err)
		}

		if len(periods) != 12 {
			t.Fatalf("periods = %d, want 12", len(periods))
		}

		first := periods[0]
		if !first.StartDate.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("first start = %s, want month start", first.StartDate)
		}
		if !first.EndDate.Equal(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("first end = %s, want jan 31", first.EndDate)
		}
		if first.Name != "FY2026 2026-01" {
			t.Errorf("first name = %s", first.Name)
		}

		last := periods[11]
		if !last.EndDate.Equal(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("last end = %s, want dec 31", last.EndDate)
		}

		for _, p := range periods {
			if p.Status != domain.PeriodStatusOpen {
				t.Errorf("period %s status = %s, want open", p.Name, p.Status)
			}
		}
	})

	t.Run("february end handles leap years", func(t *testing.T) {
		uc, _ := newPeriodFixture(t)

		periods, err := uc.CreateFiscalYear(context.Background(), usecase.CreateFiscalYearInput{
			OrgID: testOrgID,
			Name:  "FY2028",
			Start: time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("CreateFiscalYear() error = %v", err)
		}

		feb := periods[1]
		if !feb.EndDate.Equal(time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("february end = %s, want feb 29", feb.EndDate)
		}
	})

	t.Run("adjustment period adds a thirteenth one-day period", func(t *testing.T) {
		uc, _ := newPeriodFixture(t)

		periods, err := uc.CreateFiscalYear(context.Background(), usecase.CreateFiscalYearInput{
			OrgID:                   testOrgID,
			Name:                    "FY2026",
			Start:                   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			IncludeAdjustmentPeriod: true,
		})
		if err != nil {
			t.Fatalf("CreateFiscalYear() error = %v", err)
		}

		if len(periods) != 13 {
			t.Fatalf("periods = %d, want 13", len(periods))
		}

		adj := periods[12]
		if adj.Name != "FY2026 ADJ" {
			t.Errorf("adjustment name = %s", adj.Name)
		}
		lastDay := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
		if !adj.StartDate.Equal(lastDay) || !adj.EndDate.Equal(lastDay) {
			t.Errorf("adjustment span = %s to %s, want single day dec 31", adj.StartDate, adj.EndDate)
		}

		// Month 12 yields the last day to the adjustment period.
		if !periods[11].EndDate.Equal(time.Date(2026, 12, 30, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("december end = %s, want dec 30", periods[11].EndDate)
		}
	})

	t.Run("year-end date resolves to exactly one period", func(t *testing.T) {
		uc, _ := newPeriodFixture(t)

		periods, err := uc.CreateFiscalYear(context.Background(), usecase.CreateFiscalYearInput{
			OrgID:                   testOrgID,
			Name:                    "FY2026",
			Start:                   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			IncludeAdjustmentPeriod: true,
		})
		if err != nil {
			t.Fatalf("CreateFiscalYear() error = %v", err)
		}

		lastDay := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
		var containing []string
		for _, p := range periods {
			if p.Contains(lastDay) {
				containing = append(containing, p.Name)
			}
		}
		if len(containing) != 1 || containing[0] != "FY2026 ADJ" {
			t.Fatalf("periods containing dec 31 = %v, want only the adjustment period", containing)
		}

		// Year-end postings reach the adjustment period even with month
		// 12 closed.
		period, err := uc.PeriodForDate(context.Background(), testOrgID, lastDay)
		if err != nil {
			t.Fatalf("PeriodForDate() error = %v", err)
		}
		if period.Name != "FY2026 ADJ" {
			t.Errorf("period for dec 31 = %s, want FY2026 ADJ", period.Name)
		}
	})
}

func TestSetPeriodStatus(t *testing.T) {
	seed := func(t *testing.T, repo *mocks.MockPeriodRepository, status domain.PeriodStatus) {
		t.Helper()
		if err := repo.CreateBatch(context.Background(), []*domain.FiscalPeriod{{
			ID:        "period-1",
			OrgID:     testOrgID,
			Name:      "FY2026 2026-01",
			StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
			Status:    status,
		}}); err != nil {
			t.Fatalf("seed period: %v", err)
		}
	}

	t.Run("open period closes", func(t *testing.T) {
		uc, repo := newPeriodFixture(t)
		seed(t, repo, domain.PeriodStatusOpen)

		period, err := uc.SetPeriodStatus(context.Background(), usecase.SetPeriodStatusInput{
			OrgID: testOrgID, PeriodID: "period-1", Status: domain.PeriodStatusClosed,
		})
		if err != nil {
			t.Fatalf("SetPeriodStatus() error = %v", err)
		}
		if period.Status != domain.PeriodStatusClosed {
			t.Errorf("status = %s, want closed", period.Status)
		}
	})

	t.Run("closed period stays closed without admin reopen", func(t *testing.T) {
		uc, repo := newPeriodFixture(t)
		seed(t, repo, domain.PeriodStatusClosed)

		_, err := uc.SetPeriodStatus(context.Background(), usecase.SetPeriodStatusInput{
			OrgID: testOrgID, PeriodID: "period-1", Status: domain.PeriodStatusOpen,
		})
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("error = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("locked period stays locked without admin reopen", func(t *testing.T) {
		uc, repo := newPeriodFixture(t)
		seed(t, repo, domain.PeriodStatusLocked)

		_, err := uc.SetPeriodStatus(context.Background(), usecase.SetPeriodStatusInput{
			OrgID: testOrgID, PeriodID: "period-1", Status: domain.PeriodStatusOpen,
		})
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("error = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("admin reopen unlocks", func(t *testing.T) {
		uc, repo := newPeriodFixture(t)
		seed(t, repo, domain.PeriodStatusLocked)

		period, err := uc.SetPeriodStatus(context.Background(), usecase.SetPeriodStatusInput{
			OrgID: testOrgID, PeriodID: "period-1", Status: domain.PeriodStatusOpen, AdminReopen: true,
		})
		if err != nil {
			t.Fatalf("SetPeriodStatus() error = %v", err)
		}
		if period.Status != domain.PeriodStatusOpen {
			t.Errorf("status = %s, want open", period.Status)
		}
	})

	t.Run("writes period.status_set outbox event", func(t *testing.T) {
		repo := mocks.NewMockPeriodRepository()
		outbox := mocks.NewMockOutboxRepository()
		uc := usecase.NewPeriodUseCase(mocks.NewMockTransactionManager(), repo, outbox, mocks.NewMockIDGenerator())
		seed(t, repo, domain.PeriodStatusOpen)

		if _, err := uc.SetPeriodStatus(context.Background(), usecase.SetPeriodStatusInput{
			OrgID: testOrgID, PeriodID: "period-1", Status: domain.PeriodStatusClosed,
		}); err != nil {
			t.Fatalf("SetPeriodStatus() error = %v", err)
		}

		if len(outbox.Events) != 1 {
			t.Fatalf("outbox events = %d, want 1", len(outbox.Events))
		}
		event := outbox.Events[0]
		if event.EventType != domain.EventTypePeriodStatusSet {
			t.Errorf("event type = %s, want %s", event.EventType, domain.EventTypePeriodStatusSet)
		}
		if event.AggregateType != domain.AggregateTypePeriod || event.AggregateID != "period-1" {
			t.Errorf("aggregate = %s/%s, want %s/period-1", event.AggregateType, event.AggregateID, domain.AggregateTypePeriod)
		}
		if got := event.Payload["status"]; got != string(domain.PeriodStatusClosed) {
			t.Errorf("payload status = %v, want closed", got)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		uc, repo := newPeriodFixture(t)
		seed(t, repo, domain.PeriodStatusOpen)

		_, err := uc.SetPeriodStatus(context.Background(), usecase.SetPeriodStatusInput{
			OrgID: testOrgID, PeriodID: "period-1", Status: "archived",
		})
		if err == nil {
			t.Fatal("expected error for unknown status")
		}
	})
}

func TestPeriodForDate(t *testing.T) {
	uc, repo := newPeriodFixture(t)
	if err := repo.CreateBatch(context.Background(), []*domain.FiscalPeriod{{
		ID:        "period-1",
		OrgID:     testOrgID,
		Name:      "FY2026 2026-01",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodStatusOpen,
	}}); err != nil {
		t.Fatalf("seed period: %v", err)
	}

	period, err := uc.PeriodForDate(context.Background(), testOrgID, time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PeriodForDate() error = %v", err)
	}
	if period.ID != "period-1" {
		t.Errorf("period = %s, want period-1", period.ID)
	}

	_, err = uc.PeriodForDate(context.Background(), testOrgID, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, domain.ErrNoOpenPeriod) {
		t.Errorf("error = %v, want ErrNoOpenPeriod", err)
	}
}
