package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/divvyhq/divvy-backend/internal/core/domain"
)

// PeriodReader defines read operations for period data
type PeriodReader interface {
	// FindPeriodByID retrieves a period by its unique identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.Period, error)

	// FindOpenPeriod retrieves the single currently open period.
	// Returns apperrors.ErrNotFound if no open period exists.
	FindOpenPeriod(ctx context.Context) (*domain.Period, error)

	// ListPeriods retrieves all periods, newest first.
	ListPeriods(ctx context.Context) ([]domain.Period, error)
}

// PeriodWriter defines write operations for period data
type PeriodWriter interface {
	// SavePeriod persists a new period.
	SavePeriod(ctx context.Context, period domain.Period) error
}

// PeriodLockManager covers the period operations that participate in the
// settlement transaction and in write serialization.
type PeriodLockManager interface {
	// FindOpenPeriodForUpdate retrieves the open period and locks its row,
	// serializing all ledger writes against settlement. Must be called
	// within a transaction.
	FindOpenPeriodForUpdate(ctx context.Context, tx pgx.Tx) (*domain.Period, error)

	// ClosePeriodInTx marks a period settled and stamps its end date
	// within a transaction.
	ClosePeriodInTx(ctx context.Context, tx pgx.Tx, period domain.Period) error

	// SavePeriodInTx persists a new period within a transaction.
	SavePeriodInTx(ctx context.Context, tx pgx.Tx, period domain.Period) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
	PeriodLockManager
}

// PeriodRepositoryWithTx extends PeriodRepositoryFacade with transaction capabilities
type PeriodRepositoryWithTx interface {
	PeriodRepositoryFacade
	TransactionManager
}
