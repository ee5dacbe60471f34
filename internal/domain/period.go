package domain

import (
	"fmt"
	"time"
)

// PeriodStatus gates whether transactions may be posted into a period.
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "open"
	PeriodStatusClosed PeriodStatus = "closed"
	PeriodStatusLocked PeriodStatus = "locked"
)

// Valid reports whether the period status is known.
func (s PeriodStatus) Valid() bool {
	switch s {
	case PeriodStatusOpen, PeriodStatusClosed, PeriodStatusLocked:
		return true
	}
	return false
}

// FiscalPeriod is a bounded date range with a posting-permission status.
type FiscalPeriod struct {
	ID        string
	OrgID     string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Status    PeriodStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contains reports whether d falls inside the period, inclusive of both ends.
// Only the calendar date matters.
func (p *FiscalPeriod) Contains(d time.Time) bool {
	day := truncateToDay(d)
	return !day.Before(truncateToDay(p.StartDate)) && !day.After(truncateToDay(p.EndDate))
}

// ValidatePostable returns the period error matching a non-open status.
func (p *FiscalPeriod) ValidatePostable() error {
	switch p.Status {
	case PeriodStatusOpen:
		return nil
	case PeriodStatusClosed:
		return fmt.Errorf("%w: %s", ErrPeriodClosed, p.Name)
	case PeriodStatusLocked:
		return fmt.Errorf("%w: %s", ErrPeriodLocked, p.Name)
	}
	return fmt.Errorf("%w: %s has unknown status %q", ErrPeriodClosed, p.Name, p.Status)
}

// ValidateStatusChange checks the period status transition policy:
// open → closed, open → locked and closed → locked are always permitted;
// reopening a closed or locked period only as an explicit administrative
// reopen.
func (p *FiscalPeriod) ValidateStatusChange(target PeriodStatus, adminReopen bool) error {
	if p.Status == target {
		return nil
	}

	switch p.Status {
	case PeriodStatusOpen:
		if target == PeriodStatusClosed || target == PeriodStatusLocked {
			return nil
		}
	case PeriodStatusClosed:
		if target == PeriodStatusLocked {
			return nil
		}
		if target == PeriodStatusOpen && adminReopen {
			return nil
		}
	case PeriodStatusLocked:
		if target == PeriodStatusOpen && adminReopen {
			return nil
		}
	}

	return fmt.Errorf("%w: period %s from %s to %s", ErrInvalidTransition, p.Name, p.Status, target)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
