package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/divvyhq/divvy-backend/internal/apperrors"
	"github.com/divvyhq/divvy-backend/internal/core/domain"
	portsrepo "github.com/divvyhq/divvy-backend/internal/core/ports/repositories"
	portssvc "github.com/divvyhq/divvy-backend/internal/core/ports/services"
	"github.com/divvyhq/divvy-backend/internal/middleware"
	"github.com/divvyhq/divvy-backend/internal/utils/accounting"
)

// settlementTolerance is the rounding slack, in minor units, under which a
// residual balance counts as settled. Splits assign whole minor units, so one
// unit is the most any member can be off by.
const settlementTolerance int64 = 1

// settlementService closes periods. The entire read-compute-write sequence
// runs under the open period's row lock, so balances cannot move between the
// read in step one and the commit.
type settlementService struct {
	memberRepo portsrepo.MemberRepositoryWithTx
	periodRepo portsrepo.PeriodRepositoryWithTx
	ledgerRepo portsrepo.LedgerRepositoryWithTx
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(
	memberRepo portsrepo.MemberRepositoryWithTx,
	periodRepo portsrepo.PeriodRepositoryWithTx,
	ledgerRepo portsrepo.LedgerRepositoryWithTx,
) portssvc.SettlementSvcFacade {
	return &settlementService{
		memberRepo: memberRepo,
		periodRepo: periodRepo,
		ledgerRepo: ledgerRepo,
	}
}

// Ensure settlementService implements the portssvc.SettlementSvcFacade interface
var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// periodBalances reads the active roster and their period-scoped balances
// under the given transaction.
func (s *settlementService) periodBalances(ctx context.Context, tx pgx.Tx, periodID string) ([]domain.MemberBalance, error) {
	roster, err := s.memberRepo.ListActiveMembersForUpdate(ctx, tx)
	if err != nil {
		return nil, err
	}

	balanceByMember, err := s.ledgerRepo.SumMemberBalancesInTx(ctx, tx, &periodID)
	if err != nil {
		return nil, err
	}

	balances := make([]domain.MemberBalance, len(roster))
	for i, m := range roster {
		balances[i] = domain.MemberBalance{
			MemberID: m.MemberID,
			Name:     m.Name,
			IsActive: true,
			Balance:  balanceByMember[m.MemberID],
		}
	}
	return balances, nil
}

// GetSettlementPlan previews the transfers that would settle the current
// period. Nothing is persisted; the short transaction only buys a consistent
// snapshot of balances and fund draw.
func (s *settlementService) GetSettlementPlan(ctx context.Context) (*domain.SettlementPlan, error) {
	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.ledgerRepo.Rollback(ctx, tx) //nolint:errcheck

	period, err := s.periodRepo.FindOpenPeriodForUpdate(ctx, tx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open period exists", apperrors.ErrIllegalState)
		}
		return nil, err
	}

	balances, err := s.periodBalances(ctx, tx, period.PeriodID)
	if err != nil {
		return nil, err
	}

	fundDraw, err := s.ledgerRepo.SumFundDrawInTx(ctx, tx, period.PeriodID)
	if err != nil {
		return nil, err
	}

	transfers := accounting.NetBalances(balances, settlementTolerance)

	return &domain.SettlementPlan{
		PeriodID:   period.PeriodID,
		PeriodName: period.Name,
		Transfers:  transfers,
		Residuals:  accounting.ResidualBalances(balances, transfers, settlementTolerance),
		FundDraw:   fundDraw,
	}, nil
}

// SettleCurrentPeriod nets the current period's balances to zero, persists
// one settlement batch per matched debtor/creditor pair and one per residual
// member settled against the outside world, writes at most one fund
// distribution memo, marks the period settled and opens the named successor.
// All of it commits atomically or not at all; on any failure the period
// stays open with no settlement visible.
func (s *settlementService) SettleCurrentPeriod(ctx context.Context, newPeriodName string, requestingUserID string) (*domain.SettlementResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	newPeriodName = strings.TrimSpace(newPeriodName)
	if newPeriodName == "" {
		return nil, fmt.Errorf("%w: new period name must not be empty", apperrors.ErrValidation)
	}

	tx, err := s.periodRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.periodRepo.Rollback(ctx, tx) //nolint:errcheck

	period, err := s.periodRepo.FindOpenPeriodForUpdate(ctx, tx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open period exists", apperrors.ErrIllegalState)
		}
		return nil, err
	}
	if period.Name == newPeriodName {
		return nil, fmt.Errorf("%w: new period name %q matches the period being settled", apperrors.ErrValidation, newPeriodName)
	}

	// Zero active members is the degenerate case: nothing to net, the
	// period simply rolls over.
	balances, err := s.periodBalances(ctx, tx, period.PeriodID)
	if err != nil {
		return nil, err
	}

	transfers := accounting.NetBalances(balances, settlementTolerance)

	now := time.Now()
	audit := newAudit(requestingUserID, now)

	// One two-entry batch per matched pair: the debtor is credited back up
	// to zero, the creditor debited back down, both tagged to the closing
	// period as its final entries.
	for _, transfer := range transfers {
		batchID := uuid.NewString()
		batch := domain.LedgerBatch{
			BatchID:     batchID,
			PeriodID:    period.PeriodID,
			Kind:        domain.BatchSettlement,
			Description: fmt.Sprintf("Settlement: %s pays %s", transfer.FromName, transfer.ToName),
			OccurredAt:  now,
			AuditFields: audit,
		}
		entries := []domain.LedgerEntry{
			memberEntry(batchID, domain.Credit, transfer.FromMemberID, transfer.Amount,
				"Settlement payment to "+transfer.ToName, audit),
			memberEntry(batchID, domain.Debit, transfer.ToMemberID, transfer.Amount,
				"Settlement payment from "+transfer.FromName, audit),
		}
		if err := s.ledgerRepo.SaveBatchInTx(ctx, tx, batch, entries); err != nil {
			return nil, err
		}
	}

	// Pairwise matching only zeroes balances that sum to zero. Deposits push
	// the member total positive, so whatever survives the matching is settled
	// against the outside world: creditors are paid out of the group, debtors
	// pay in. One two-entry batch per residual member.
	residuals := accounting.ResidualBalances(balances, transfers, settlementTolerance)
	for _, residual := range residuals {
		batchID := uuid.NewString()
		batch := domain.LedgerBatch{
			BatchID:     batchID,
			PeriodID:    period.PeriodID,
			Kind:        domain.BatchSettlement,
			OccurredAt:  now,
			AuditFields: audit,
		}
		var entries []domain.LedgerEntry
		if residual.Balance > 0 {
			batch.Description = fmt.Sprintf("Settlement: group pays %s", residual.Name)
			entries = []domain.LedgerEntry{
				memberEntry(batchID, domain.Debit, residual.MemberID, residual.Balance,
					"Settlement payment from the group", audit),
				externalEntry(batchID, domain.Credit, residual.Balance, "Money paid out of the group", audit),
			}
		} else {
			batch.Description = fmt.Sprintf("Settlement: %s pays the group", residual.Name)
			entries = []domain.LedgerEntry{
				memberEntry(batchID, domain.Credit, residual.MemberID, -residual.Balance,
					"Settlement payment to the group", audit),
				externalEntry(batchID, domain.Debit, -residual.Balance, "Money paid into the group", audit),
			}
		}
		if err := s.ledgerRepo.SaveBatchInTx(ctx, tx, batch, entries); err != nil {
			return nil, err
		}
	}

	// At most one distribution memo per settlement, summarizing the net
	// fund draw of the period. The batch is self-balancing, so it changes
	// no balance and repeated settlements of later periods never duplicate
	// earlier draws.
	fundDraw, err := s.ledgerRepo.SumFundDrawInTx(ctx, tx, period.PeriodID)
	if err != nil {
		return nil, err
	}
	if fundDraw > 0 {
		batchID := uuid.NewString()
		batch := domain.LedgerBatch{
			BatchID:     batchID,
			PeriodID:    period.PeriodID,
			Kind:        domain.BatchFundDistribution,
			Description: "Public fund distribution",
			OccurredAt:  now,
			AuditFields: audit,
		}
		entries := []domain.LedgerEntry{
			fundEntry(batchID, domain.Debit, fundDraw, "Net fund draw this period", audit),
			fundEntry(batchID, domain.Credit, fundDraw, "Net fund draw this period", audit),
		}
		if err := s.ledgerRepo.SaveBatchInTx(ctx, tx, batch, entries); err != nil {
			return nil, err
		}
	}

	// A fresh period starts a fresh rotation cycle.
	if err := s.memberRepo.ResetAllRemainderFlagsInTx(ctx, tx, requestingUserID, now); err != nil {
		return nil, err
	}

	endDate := now
	settled := *period
	settled.EndDate = &endDate
	settled.Status = domain.PeriodSettled
	settled.LastUpdatedAt = now
	settled.LastUpdatedBy = requestingUserID
	if err := s.periodRepo.ClosePeriodInTx(ctx, tx, settled); err != nil {
		return nil, err
	}

	newPeriod := domain.Period{
		PeriodID:    uuid.NewString(),
		Name:        newPeriodName,
		StartDate:   now,
		Status:      domain.PeriodOpen,
		AuditFields: audit,
	}
	if err := s.periodRepo.SavePeriodInTx(ctx, tx, newPeriod); err != nil {
		return nil, err
	}

	if err := s.periodRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Period settled",
		slog.String("settled_period_id", settled.PeriodID),
		slog.String("new_period_id", newPeriod.PeriodID),
		slog.Int("transfer_count", len(transfers)),
		slog.Int("residual_count", len(residuals)),
		slog.Int64("fund_draw", fundDraw),
	)

	confirmation := fmt.Sprintf("Period '%s' has been settled.\nNew period '%s' created.", settled.Name, newPeriod.Name)

	return &domain.SettlementResult{
		SettledPeriod: settled,
		NewPeriod:     newPeriod,
		Transfers:     transfers,
		Residuals:     residuals,
		Confirmation:  confirmation,
	}, nil
}
