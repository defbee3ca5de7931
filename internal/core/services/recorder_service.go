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
	"github.com/divvyhq/divvy-backend/internal/dto"
	"github.com/divvyhq/divvy-backend/internal/middleware"
	"github.com/divvyhq/divvy-backend/internal/utils"
	"github.com/divvyhq/divvy-backend/internal/utils/accounting"
)

// recorderService validates and persists financial events. Every event lands
// as one balanced batch against the open period; the period row is locked
// for the whole write so recording serializes against settlement.
type recorderService struct {
	memberRepo   portsrepo.MemberRepositoryWithTx
	categoryRepo portsrepo.CategoryRepositoryFacade
	periodRepo   portsrepo.PeriodRepositoryWithTx
	ledgerRepo   portsrepo.LedgerRepositoryWithTx
}

// NewRecorderService creates a new RecorderService.
func NewRecorderService(
	memberRepo portsrepo.MemberRepositoryWithTx,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	periodRepo portsrepo.PeriodRepositoryWithTx,
	ledgerRepo portsrepo.LedgerRepositoryWithTx,
) portssvc.RecorderSvcFacade {
	return &recorderService{
		memberRepo:   memberRepo,
		categoryRepo: categoryRepo,
		periodRepo:   periodRepo,
		ledgerRepo:   ledgerRepo,
	}
}

// Ensure recorderService implements the portssvc.RecorderSvcFacade interface
var _ portssvc.RecorderSvcFacade = (*recorderService)(nil)

// parsePositiveAmount converts a decimal amount string into minor units and
// rejects anything that is not strictly positive.
func parsePositiveAmount(raw string) (int64, error) {
	amount, err := utils.ParseAmountToMinorUnits(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, raw)
	}
	return amount, nil
}

// resolveCategory finds a category by bare name across all scopes.
func (s *recorderService) resolveCategory(ctx context.Context, name string) (*domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	var match *domain.Category
	for i := range categories {
		if categories[i].Name == name {
			if match != nil {
				return nil, fmt.Errorf("%w: category name %q is ambiguous, multiple scopes define it", apperrors.ErrValidation, name)
			}
			match = &categories[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: category %q does not exist", apperrors.ErrValidation, name)
	}
	return match, nil
}

// resolveMemberByName finds a member by name, mapping a miss to a validation error.
func (s *recorderService) resolveMemberByName(ctx context.Context, name string) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: member %q does not exist", apperrors.ErrValidation, name)
		}
		return nil, err
	}
	return member, nil
}

// lockOpenPeriod locks the open period row inside the given transaction.
func (s *recorderService) lockOpenPeriod(ctx context.Context, tx pgx.Tx) (*domain.Period, error) {
	period, err := s.periodRepo.FindOpenPeriodForUpdate(ctx, tx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open period exists", apperrors.ErrIllegalState)
		}
		return nil, err
	}
	return period, nil
}

func newAudit(userID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}

func memberEntry(batchID string, dir domain.EntryDirection, memberID string, amount int64, memo string, audit domain.AuditFields) domain.LedgerEntry {
	id := memberID
	return domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		BatchID:     batchID,
		Direction:   dir,
		Participant: domain.ParticipantMember,
		MemberID:    &id,
		Amount:      amount,
		Memo:        memo,
		AuditFields: audit,
	}
}

func fundEntry(batchID string, dir domain.EntryDirection, amount int64, memo string, audit domain.AuditFields) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		BatchID:     batchID,
		Direction:   dir,
		Participant: domain.ParticipantFund,
		Amount:      amount,
		Memo:        memo,
		AuditFields: audit,
	}
}

func externalEntry(batchID string, dir domain.EntryDirection, amount int64, memo string, audit domain.AuditFields) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		BatchID:     batchID,
		Direction:   dir,
		Participant: domain.ParticipantExternal,
		Amount:      amount,
		Memo:        memo,
		AuditFields: audit,
	}
}

// RecordExpense validates and persists an expense. The amount (less any
// public fund offset for fund-paid expenses) is split evenly across the
// active roster; the indivisible remainder goes to one member chosen by the
// round-robin rotation, updated in the same transaction as the ledger write.
func (s *recorderService) RecordExpense(ctx context.Context, req dto.RecordExpenseRequest, creatorUserID string) (*domain.RecordReceipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: expense description is required", apperrors.ErrValidation)
	}

	amount, err := parsePositiveAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, req.CategoryName)
	if err != nil {
		return nil, err
	}

	var payer *domain.Member
	if !req.PaidFromFund {
		if payer, err = s.resolveMemberByName(ctx, req.PayerName); err != nil {
			return nil, err
		}
	}

	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.ledgerRepo.Rollback(ctx, tx) //nolint:errcheck // rollback after commit is a no-op

	period, err := s.lockOpenPeriod(ctx, tx)
	if err != nil {
		return nil, err
	}

	// Lock the roster so two concurrent expenses cannot both pick the same
	// rotation member.
	roster, err := s.memberRepo.ListActiveMembersForUpdate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("%w: cannot split an expense with zero active members", apperrors.ErrInvalidState)
	}

	// Fund-paid expenses draw the fund down first, clamped at zero; only the
	// residual is split among members.
	var offsetApplied int64
	residual := amount
	if req.PaidFromFund {
		fundBalance, err := s.ledgerRepo.SumFundBalanceInTx(ctx, tx, nil)
		if err != nil {
			return nil, err
		}
		offsetApplied = accounting.ApplyFundOffset(amount, fundBalance)
		residual = amount - offsetApplied
	}

	share, remainder := accounting.SplitEvenly(residual, len(roster))

	now := time.Now()
	audit := newAudit(creatorUserID, now)
	batchID := uuid.NewString()

	// The remainder assignment is independent of who paid: the rotation
	// advances whenever a remainder exists, and its flag updates commit with
	// the ledger write.
	remainderIdx := -1
	remainderName := "N/A"
	if remainder > 0 {
		idx, resetCycle := accounting.PickRemainderMember(roster)
		if resetCycle {
			if err := s.memberRepo.ResetAllRemainderFlagsInTx(ctx, tx, creatorUserID, now); err != nil {
				return nil, err
			}
		}
		if err := s.memberRepo.SetRemainderFlagsInTx(ctx, tx, []string{roster[idx].MemberID}, true, creatorUserID, now); err != nil {
			return nil, err
		}
		remainderIdx = idx
		remainderName = roster[idx].Name
	}

	entries := []domain.LedgerEntry{}
	for i, member := range roster {
		memberShare := share
		if i == remainderIdx {
			memberShare += remainder
		}
		if memberShare == 0 {
			continue
		}
		entries = append(entries, memberEntry(batchID, domain.Debit, member.MemberID, memberShare, "Share of "+description, audit))
	}

	if req.PaidFromFund {
		if offsetApplied > 0 {
			entries = append(entries, fundEntry(batchID, domain.Debit, offsetApplied, "Fund offset for "+description, audit))
		}
		entries = append(entries, externalEntry(batchID, domain.Credit, amount, "Paid to outside party", audit))
	} else {
		entries = append(entries, memberEntry(batchID, domain.Credit, payer.MemberID, amount, "Paid by "+payer.Name, audit))
	}

	if err := accounting.ValidateBatchBalance(entries); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidState, err)
	}

	batch := domain.LedgerBatch{
		BatchID:     batchID,
		PeriodID:    period.PeriodID,
		Kind:        domain.BatchExpense,
		Description: description,
		CategoryID:  &category.CategoryID,
		OccurredAt:  now,
		AuditFields: audit,
	}

	if err := s.ledgerRepo.SaveBatchInTx(ctx, tx, batch, entries); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Expense recorded",
		slog.String("batch_id", batchID),
		slog.Int64("amount", amount),
		slog.Int64("fund_offset", offsetApplied),
		slog.String("remainder_member", remainderName),
	)

	confirmation := fmt.Sprintf("Expense '%s' of %s recorded successfully. Remainder of %s assigned to %s.",
		description, utils.FormatMinorUnits(amount), utils.FormatMinorUnits(remainder), remainderName)

	return &domain.RecordReceipt{Batch: batch, Entries: entries, Confirmation: confirmation}, nil
}

// RecordDeposit validates and persists a deposit to a member or the public
// fund. Deposits are never split.
func (s *recorderService) RecordDeposit(ctx context.Context, req dto.RecordDepositRequest, creatorUserID string) (*domain.RecordReceipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount, err := parsePositiveAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	var member *domain.Member
	if !req.ToFund {
		if member, err = s.resolveMemberByName(ctx, req.MemberName); err != nil {
			return nil, err
		}
	}

	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.ledgerRepo.Rollback(ctx, tx) //nolint:errcheck

	period, err := s.lockOpenPeriod(ctx, tx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	audit := newAudit(creatorUserID, now)
	batchID := uuid.NewString()
	description := strings.TrimSpace(req.Description)

	beneficiary := "the public fund"
	entries := []domain.LedgerEntry{
		externalEntry(batchID, domain.Debit, amount, "Money brought into the group", audit),
	}
	if req.ToFund {
		entries = append(entries, fundEntry(batchID, domain.Credit, amount, description, audit))
	} else {
		entries = append(entries, memberEntry(batchID, domain.Credit, member.MemberID, amount, description, audit))
		beneficiary = member.Name
	}

	batch := domain.LedgerBatch{
		BatchID:     batchID,
		PeriodID:    period.PeriodID,
		Kind:        domain.BatchDeposit,
		Description: description,
		OccurredAt:  now,
		AuditFields: audit,
	}

	if err := s.ledgerRepo.SaveBatchInTx(ctx, tx, batch, entries); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Deposit recorded",
		slog.String("batch_id", batchID),
		slog.Int64("amount", amount),
		slog.Bool("to_fund", req.ToFund),
	)

	confirmation := fmt.Sprintf("Deposit of %s for %s recorded successfully.",
		utils.FormatMinorUnits(amount), beneficiary)

	return &domain.RecordReceipt{Batch: batch, Entries: entries, Confirmation: confirmation}, nil
}

// RecordRefund persists money paid back out of the group to a member. The
// member may be inactive; refunds are the correction path for departures.
func (s *recorderService) RecordRefund(ctx context.Context, req dto.RecordRefundRequest, creatorUserID string) (*domain.RecordReceipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount, err := parsePositiveAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	member, err := s.resolveMemberByName(ctx, req.MemberName)
	if err != nil {
		return nil, err
	}

	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.ledgerRepo.Rollback(ctx, tx) //nolint:errcheck

	period, err := s.lockOpenPeriod(ctx, tx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	audit := newAudit(creatorUserID, now)
	batchID := uuid.NewString()

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Refund"
	} else if !strings.HasPrefix(description, "Refund") {
		description = "Refund: " + description
	}

	entries := []domain.LedgerEntry{
		memberEntry(batchID, domain.Debit, member.MemberID, amount, "Refund paid to "+member.Name, audit),
		externalEntry(batchID, domain.Credit, amount, "Money paid out of the group", audit),
	}

	batch := domain.LedgerBatch{
		BatchID:     batchID,
		PeriodID:    period.PeriodID,
		Kind:        domain.BatchRefund,
		Description: description,
		OccurredAt:  now,
		AuditFields: audit,
	}

	if err := s.ledgerRepo.SaveBatchInTx(ctx, tx, batch, entries); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Refund recorded",
		slog.String("batch_id", batchID),
		slog.String("member_id", member.MemberID),
		slog.Int64("amount", amount),
	)

	confirmation := fmt.Sprintf("Refund of %s to %s recorded successfully.",
		utils.FormatMinorUnits(amount), member.Name)

	return &domain.RecordReceipt{Batch: batch, Entries: entries, Confirmation: confirmation}, nil
}

// GetBatchByID retrieves one stored batch together with its entries.
func (s *recorderService) GetBatchByID(ctx context.Context, batchID string) (*domain.BatchDetail, error) {
	batch, err := s.ledgerRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.FindEntriesByBatchID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	return &domain.BatchDetail{Batch: *batch, Entries: entries}, nil
}

// ListBatchesByPeriod retrieves the batch headers of a period in insertion
// order. The period must exist; its settled state does not matter, history
// is always readable.
func (s *recorderService) ListBatchesByPeriod(ctx context.Context, periodID string) ([]domain.LedgerBatch, error) {
	if _, err := s.periodRepo.FindPeriodByID(ctx, periodID); err != nil {
		return nil, err
	}
	return s.ledgerRepo.ListBatchesByPeriod(ctx, periodID)
}
