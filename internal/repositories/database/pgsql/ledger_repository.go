package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/divvyhq/divvy-backend/internal/apperrors"
	"github.com/divvyhq/divvy-backend/internal/core/domain"
	portsrepo "github.com/divvyhq/divvy-backend/internal/core/ports/repositories"
	"github.com/divvyhq/divvy-backend/internal/models"
	"github.com/divvyhq/divvy-backend/internal/utils/mapping"
)

const batchColumns = `batch_id, period_id, kind, description, category_id, occurred_at, created_at, created_by, last_updated_at, last_updated_by`
const entryColumns = `entry_id, batch_id, direction, participant, member_id, amount, memo, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

// SaveBatchInTx persists a batch header and its entries in one go. The
// entries are queued as a pgx batch; the CHECK constraints on the entries
// table back up the balance validation done by the services.
func (r *PgxLedgerRepository) SaveBatchInTx(ctx context.Context, tx pgx.Tx, batch domain.LedgerBatch, entries []domain.LedgerEntry) error {
	modelBatch := mapping.ToModelLedgerBatch(batch)

	headerQuery := `
		INSERT INTO ledger_batches (batch_id, period_id, kind, description, category_id, occurred_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, headerQuery,
		modelBatch.BatchID,
		modelBatch.PeriodID,
		modelBatch.Kind,
		modelBatch.Description,
		modelBatch.CategoryID,
		modelBatch.OccurredAt,
		modelBatch.CreatedAt,
		modelBatch.CreatedBy,
		modelBatch.LastUpdatedAt,
		modelBatch.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: batch %s already exists", apperrors.ErrDuplicate, modelBatch.BatchID)
		}
		return fmt.Errorf("failed to save batch header %s: %w", modelBatch.BatchID, err)
	}

	entryQuery := `
		INSERT INTO ledger_entries (entry_id, batch_id, direction, participant, member_id, amount, memo, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	pgxBatch := &pgx.Batch{}
	for _, entry := range entries {
		modelEntry := mapping.ToModelLedgerEntry(entry)
		pgxBatch.Queue(entryQuery,
			modelEntry.EntryID,
			modelEntry.BatchID,
			modelEntry.Direction,
			modelEntry.Participant,
			modelEntry.MemberID,
			modelEntry.Amount,
			modelEntry.Memo,
			modelEntry.CreatedAt,
			modelEntry.CreatedBy,
			modelEntry.LastUpdatedAt,
			modelEntry.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, pgxBatch)
	var batchErr error
	for i := 0; i < pgxBatch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert ledger entry %s: %w", entries[i].EntryID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close ledger entry batch: %w", err)
	}
	return batchErr
}

// FindBatchByID retrieves a batch header by its ID.
func (r *PgxLedgerRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.LedgerBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM ledger_batches WHERE batch_id = $1;`

	var m models.LedgerBatch
	err := r.Pool.QueryRow(ctx, query, batchID).Scan(
		&m.BatchID,
		&m.PeriodID,
		&m.Kind,
		&m.Description,
		&m.CategoryID,
		&m.OccurredAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find batch by ID %s: %w", batchID, err)
	}

	domainBatch := mapping.ToDomainLedgerBatch(m)
	return &domainBatch, nil
}

// FindEntriesByBatchID retrieves all entries of a batch in insertion order.
func (r *PgxLedgerRepository) FindEntriesByBatchID(ctx context.Context, batchID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE batch_id = $1 ORDER BY created_at, entry_id;`

	rows, err := r.Pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for batch %s: %w", batchID, err)
	}
	defer rows.Close()

	modelEntries := []models.LedgerEntry{}
	for rows.Next() {
		var m models.LedgerEntry
		err := rows.Scan(
			&m.EntryID,
			&m.BatchID,
			&m.Direction,
			&m.Participant,
			&m.MemberID,
			&m.Amount,
			&m.Memo,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}

	return mapping.ToDomainLedgerEntrySlice(modelEntries), nil
}

// ListBatchesByPeriod retrieves the batch headers of a period in insertion order.
func (r *PgxLedgerRepository) ListBatchesByPeriod(ctx context.Context, periodID string) ([]domain.LedgerBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM ledger_batches WHERE period_id = $1 ORDER BY occurred_at, batch_id;`

	rows, err := r.Pool.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches for period %s: %w", periodID, err)
	}
	defer rows.Close()

	batches := []domain.LedgerBatch{}
	for rows.Next() {
		var m models.LedgerBatch
		err := rows.Scan(
			&m.BatchID,
			&m.PeriodID,
			&m.Kind,
			&m.Description,
			&m.CategoryID,
			&m.OccurredAt,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch row: %w", err)
		}
		batches = append(batches, mapping.ToDomainLedgerBatch(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batch rows: %w", err)
	}

	return batches, nil
}

// memberBalanceQuery is the whole aggregation story: a balance is nothing
// but the signed sum of a member's entries, credits positive.
const memberBalanceQuery = `
	SELECT e.member_id,
	       COALESCE(SUM(CASE WHEN e.direction = 'CREDIT' THEN e.amount ELSE -e.amount END), 0) AS balance
	FROM ledger_entries e
	JOIN ledger_batches b ON b.batch_id = e.batch_id
	WHERE e.participant = 'MEMBER'
	  AND ($1::text IS NULL OR b.period_id = $1)
	GROUP BY e.member_id;
`

func sumMemberBalances(ctx context.Context, q queryer, periodID *string) (map[string]int64, error) {
	rows, err := q.Query(ctx, memberBalanceQuery, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query member balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]int64)
	for rows.Next() {
		var memberID string
		var balance int64
		if err := rows.Scan(&memberID, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan member balance row: %w", err)
		}
		balances[memberID] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member balance rows: %w", err)
	}
	return balances, nil
}

const fundBalanceQuery = `
	SELECT COALESCE(SUM(CASE WHEN e.direction = 'CREDIT' THEN e.amount ELSE -e.amount END), 0) AS balance
	FROM ledger_entries e
	JOIN ledger_batches b ON b.batch_id = e.batch_id
	WHERE e.participant = 'FUND'
	  AND ($1::text IS NULL OR b.period_id = $1);
`

func sumFundBalance(ctx context.Context, q queryer, periodID *string) (int64, error) {
	var balance int64
	if err := q.QueryRow(ctx, fundBalanceQuery, periodID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to query fund balance: %w", err)
	}
	return balance, nil
}

// queryer is the subset of pgx that both a pool and a transaction satisfy.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SumMemberBalances returns the net balance per member ID.
func (r *PgxLedgerRepository) SumMemberBalances(ctx context.Context, periodID *string) (map[string]int64, error) {
	return sumMemberBalances(ctx, r.Pool, periodID)
}

// SumMemberBalancesInTx is SumMemberBalances under a held transaction.
func (r *PgxLedgerRepository) SumMemberBalancesInTx(ctx context.Context, tx pgx.Tx, periodID *string) (map[string]int64, error) {
	return sumMemberBalances(ctx, tx, periodID)
}

// SumFundBalance returns the public fund's net balance.
func (r *PgxLedgerRepository) SumFundBalance(ctx context.Context, periodID *string) (int64, error) {
	return sumFundBalance(ctx, r.Pool, periodID)
}

// SumFundBalanceInTx is SumFundBalance under a held transaction.
func (r *PgxLedgerRepository) SumFundBalanceInTx(ctx context.Context, tx pgx.Tx, periodID *string) (int64, error) {
	return sumFundBalance(ctx, tx, periodID)
}

// SumFundDrawInTx returns how much the fund was net drawn down within a
// period, floored at zero. Self-balancing distribution memos cancel out of
// the sum, so repeating a settlement query stays stable.
func (r *PgxLedgerRepository) SumFundDrawInTx(ctx context.Context, tx pgx.Tx, periodID string) (int64, error) {
	query := `
		SELECT GREATEST(0, COALESCE(SUM(CASE WHEN e.direction = 'DEBIT' THEN e.amount ELSE -e.amount END), 0))
		FROM ledger_entries e
		JOIN ledger_batches b ON b.batch_id = e.batch_id
		WHERE e.participant = 'FUND' AND b.period_id = $1;
	`
	var draw int64
	if err := tx.QueryRow(ctx, query, periodID).Scan(&draw); err != nil {
		return 0, fmt.Errorf("failed to query fund draw for period %s: %w", periodID, err)
	}
	return draw, nil
}

// GetPeriodTotals returns the deposit total, expense total and batch count
// for one period. Totals are the credit side of each batch, which for a
// balanced batch is the full economic value of the event.
func (r *PgxLedgerRepository) GetPeriodTotals(ctx context.Context, periodID string) (int64, int64, int, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN b.kind = 'DEPOSIT' AND e.direction = 'CREDIT' THEN e.amount ELSE 0 END), 0) AS deposit_total,
			COALESCE(SUM(CASE WHEN b.kind = 'EXPENSE' AND e.direction = 'CREDIT' THEN e.amount ELSE 0 END), 0) AS expense_total,
			COUNT(DISTINCT b.batch_id) AS batch_count
		FROM ledger_batches b
		LEFT JOIN ledger_entries e ON e.batch_id = b.batch_id
		WHERE b.period_id = $1;
	`
	var depositTotal, expenseTotal int64
	var batchCount int
	if err := r.Pool.QueryRow(ctx, query, periodID).Scan(&depositTotal, &expenseTotal, &batchCount); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to query totals for period %s: %w", periodID, err)
	}
	return depositTotal, expenseTotal, batchCount, nil
}
