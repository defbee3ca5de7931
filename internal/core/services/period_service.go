package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/divvyhq/divvy-backend/internal/apperrors"
	"github.com/divvyhq/divvy-backend/internal/core/domain"
	portsrepo "github.com/divvyhq/divvy-backend/internal/core/ports/repositories"
	portssvc "github.com/divvyhq/divvy-backend/internal/core/ports/services"
)

// periodService exposes the read side of periods. Creation happens only at
// seed time and inside settlement.
type periodService struct {
	periodRepo portsrepo.PeriodRepositoryWithTx
	ledgerRepo portsrepo.LedgerRepositoryWithTx
}

// NewPeriodService creates a new PeriodService.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryWithTx, ledgerRepo portsrepo.LedgerRepositoryWithTx) portssvc.PeriodSvcFacade {
	return &periodService{periodRepo: periodRepo, ledgerRepo: ledgerRepo}
}

// Ensure periodService implements the portssvc.PeriodSvcFacade interface
var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// GetCurrentPeriod retrieves the single open period. A missing open period
// is a store-initialization defect, surfaced as an illegal state.
func (s *periodService) GetCurrentPeriod(ctx context.Context) (*domain.Period, error) {
	period, err := s.periodRepo.FindOpenPeriod(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open period exists", apperrors.ErrIllegalState)
		}
		return nil, err
	}
	return period, nil
}

// GetPeriodByID retrieves a period by ID.
func (s *periodService) GetPeriodByID(ctx context.Context, periodID string) (*domain.Period, error) {
	return s.periodRepo.FindPeriodByID(ctx, periodID)
}

// ListPeriods retrieves all periods, newest first.
func (s *periodService) ListPeriods(ctx context.Context) ([]domain.Period, error) {
	return s.periodRepo.ListPeriods(ctx)
}

// GetPeriodSummary aggregates one period's deposit and expense totals. The
// fund balance reported is the all-time figure, since the fund carries
// forward across periods.
func (s *periodService) GetPeriodSummary(ctx context.Context, periodID string) (*domain.PeriodSummary, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}

	depositTotal, expenseTotal, batchCount, err := s.ledgerRepo.GetPeriodTotals(ctx, periodID)
	if err != nil {
		return nil, err
	}

	fundBalance, err := s.ledgerRepo.SumFundBalance(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &domain.PeriodSummary{
		PeriodID:     period.PeriodID,
		PeriodName:   period.Name,
		IsSettled:    period.IsSettled(),
		DepositTotal: depositTotal,
		ExpenseTotal: expenseTotal,
		BatchCount:   batchCount,
		FundBalance:  fundBalance,
	}, nil
}
