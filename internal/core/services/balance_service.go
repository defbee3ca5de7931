package services

import (
	"context"

	"github.com/divvyhq/divvy-backend/internal/core/domain"
	portsrepo "github.com/divvyhq/divvy-backend/internal/core/ports/repositories"
	portssvc "github.com/divvyhq/divvy-backend/internal/core/ports/services"
)

// balanceService derives balances from the ledger. It is a pure query layer:
// every figure is a signed sum over stored entries, so repeated invocations
// are always safe and always consistent with history, even after roster
// changes.
type balanceService struct {
	memberRepo portsrepo.MemberRepositoryWithTx
	periodRepo portsrepo.PeriodRepositoryWithTx
	ledgerRepo portsrepo.LedgerRepositoryWithTx
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(
	memberRepo portsrepo.MemberRepositoryWithTx,
	periodRepo portsrepo.PeriodRepositoryWithTx,
	ledgerRepo portsrepo.LedgerRepositoryWithTx,
) portssvc.BalanceSvcFacade {
	return &balanceService{
		memberRepo: memberRepo,
		periodRepo: periodRepo,
		ledgerRepo: ledgerRepo,
	}
}

// Ensure balanceService implements the portssvc.BalanceSvcFacade interface
var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// ComputeBalances derives net member balances and the fund balance. A nil
// periodID means all-time scope; inactive members are excluded unless
// includeInactive is set. Members with no entries report a zero balance.
func (s *balanceService) ComputeBalances(ctx context.Context, periodID *string, includeInactive bool) (*domain.BalanceReport, error) {
	if periodID != nil {
		if _, err := s.periodRepo.FindPeriodByID(ctx, *periodID); err != nil {
			return nil, err
		}
	}

	members, err := s.memberRepo.ListMembers(ctx, !includeInactive)
	if err != nil {
		return nil, err
	}

	balanceByMember, err := s.ledgerRepo.SumMemberBalances(ctx, periodID)
	if err != nil {
		return nil, err
	}

	fundBalance, err := s.ledgerRepo.SumFundBalance(ctx, periodID)
	if err != nil {
		return nil, err
	}

	memberBalances := make([]domain.MemberBalance, len(members))
	for i, m := range members {
		memberBalances[i] = domain.MemberBalance{
			MemberID: m.MemberID,
			Name:     m.Name,
			IsActive: m.IsActive,
			Balance:  balanceByMember[m.MemberID],
		}
	}

	return &domain.BalanceReport{
		PeriodID:    periodID,
		Members:     memberBalances,
		FundBalance: fundBalance,
	}, nil
}
