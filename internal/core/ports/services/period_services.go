package services

import (
	"context"

	"github.com/divvyhq/divvy-backend/internal/core/domain"
)

// PeriodSvcFacade defines the read-side period operations. Periods are only
// ever created by settlement (or by the initial seed), so there is no
// standalone create operation here.
type PeriodSvcFacade interface {
	// GetCurrentPeriod retrieves the single open period.
	GetCurrentPeriod(ctx context.Context) (*domain.Period, error)

	// GetPeriodByID retrieves a period by ID.
	GetPeriodByID(ctx context.Context, periodID string) (*domain.Period, error)

	// ListPeriods retrieves all periods, newest first.
	ListPeriods(ctx context.Context) ([]domain.Period, error)

	// GetPeriodSummary aggregates one period's deposit and expense totals.
	GetPeriodSummary(ctx context.Context, periodID string) (*domain.PeriodSummary, error)
}
