package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/divvyhq/divvy-backend/internal/core/domain"
)

// LedgerReader defines read operations for ledger batches and entries
type LedgerReader interface {
	// FindBatchByID retrieves a batch header by its unique identifier.
	FindBatchByID(ctx context.Context, batchID string) (*domain.LedgerBatch, error)

	// FindEntriesByBatchID retrieves all entries of a batch.
	FindEntriesByBatchID(ctx context.Context, batchID string) ([]domain.LedgerEntry, error)

	// ListBatchesByPeriod retrieves the batch headers of a period in
	// insertion order.
	ListBatchesByPeriod(ctx context.Context, periodID string) ([]domain.LedgerBatch, error)
}

// LedgerWriter defines write operations for ledger data
type LedgerWriter interface {
	// SaveBatchInTx persists a batch header and its entries within a
	// transaction. Entries are immutable once written.
	SaveBatchInTx(ctx context.Context, tx pgx.Tx, batch domain.LedgerBatch, entries []domain.LedgerEntry) error
}

// BalanceReader defines the pure aggregation queries over ledger entries.
// Every balance is a direct signed sum (credits minus debits); no splitting
// logic is ever replayed.
type BalanceReader interface {
	// SumMemberBalances returns the net balance per member ID. A nil
	// periodID sums over all periods.
	SumMemberBalances(ctx context.Context, periodID *string) (map[string]int64, error)

	// SumFundBalance returns the public fund's net balance. A nil periodID
	// sums over all periods; the fund normally carries forward, so the
	// all-time figure is the operative one.
	SumFundBalance(ctx context.Context, periodID *string) (int64, error)

	// SumMemberBalancesInTx is SumMemberBalances under a held transaction,
	// used by settlement so the balances it nets cannot move underneath it.
	SumMemberBalancesInTx(ctx context.Context, tx pgx.Tx, periodID *string) (map[string]int64, error)

	// SumFundBalanceInTx is SumFundBalance under a held transaction.
	SumFundBalanceInTx(ctx context.Context, tx pgx.Tx, periodID *string) (int64, error)

	// SumFundDrawInTx returns how much the fund was net drawn down (debits
	// minus credits, floored at zero) within one period.
	SumFundDrawInTx(ctx context.Context, tx pgx.Tx, periodID string) (int64, error)

	// GetPeriodTotals returns the deposit total, expense total and batch
	// count for one period.
	GetPeriodTotals(ctx context.Context, periodID string) (depositTotal int64, expenseTotal int64, batchCount int, err error)
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
	BalanceReader
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
