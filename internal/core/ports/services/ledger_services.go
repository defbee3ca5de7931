package services

import (
	"context"

	"github.com/divvyhq/divvy-backend/internal/core/domain"
	"github.com/divvyhq/divvy-backend/internal/dto"
)

// RecorderSvcFacade defines the operations that persist financial events.
// Every event lands as one balanced batch against the current open period.
type RecorderSvcFacade interface {
	// RecordExpense validates and persists an expense, splitting it across
	// the active roster and assigning the indivisible remainder by rotation.
	RecordExpense(ctx context.Context, req dto.RecordExpenseRequest, creatorUserID string) (*domain.RecordReceipt, error)

	// RecordDeposit validates and persists a deposit to a member or to the
	// public fund. No splitting occurs.
	RecordDeposit(ctx context.Context, req dto.RecordDepositRequest, creatorUserID string) (*domain.RecordReceipt, error)

	// RecordRefund validates and persists a refund paid out to a member.
	RecordRefund(ctx context.Context, req dto.RecordRefundRequest, creatorUserID string) (*domain.RecordReceipt, error)

	// GetBatchByID retrieves one stored batch with its entries.
	GetBatchByID(ctx context.Context, batchID string) (*domain.BatchDetail, error)

	// ListBatchesByPeriod retrieves the batch headers of a period in
	// insertion order.
	ListBatchesByPeriod(ctx context.Context, periodID string) ([]domain.LedgerBatch, error)
}

// BalanceSvcFacade defines the pure balance aggregation queries.
type BalanceSvcFacade interface {
	// ComputeBalances derives net member balances and the fund balance.
	// A nil periodID means all-time scope. Inactive members are excluded
	// unless includeInactive is set.
	ComputeBalances(ctx context.Context, periodID *string, includeInactive bool) (*domain.BalanceReport, error)
}

// SettlementSvcFacade defines the period-close operations.
type SettlementSvcFacade interface {
	// GetSettlementPlan previews the transfers that would settle the
	// current period, without persisting anything.
	GetSettlementPlan(ctx context.Context) (*domain.SettlementPlan, error)

	// SettleCurrentPeriod nets the current period's balances to zero,
	// persists the settlement transfers and residual payouts against the
	// closing period, marks it settled and opens a new period, all in one
	// atomic unit.
	SettleCurrentPeriod(ctx context.Context, newPeriodName string, requestingUserID string) (*domain.SettlementResult, error)
}
