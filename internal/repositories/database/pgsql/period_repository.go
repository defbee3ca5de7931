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

const periodColumns = `period_id, name, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for period data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryWithTx {
	return &PgxPeriodRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxPeriodRepository implements portsrepo.PeriodRepositoryWithTx
var _ portsrepo.PeriodRepositoryWithTx = (*PgxPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (*models.Period, error) {
	var m models.Period
	err := row.Scan(
		&m.PeriodID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const insertPeriodQuery = `
	INSERT INTO periods (period_id, name, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

func periodInsertArgs(m models.Period) []any {
	return []any{
		m.PeriodID,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

func mapPeriodInsertError(err error, m models.Period) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		// Either a duplicate ID or the single-open-period partial index fired.
		return fmt.Errorf("%w: period %q conflicts with an existing period", apperrors.ErrDuplicate, m.Name)
	}
	return fmt.Errorf("failed to save period %s: %w", m.PeriodID, err)
}

// SavePeriod inserts a new period.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.Period) error {
	modelPeriod := mapping.ToModelPeriod(period)
	if _, err := r.Pool.Exec(ctx, insertPeriodQuery, periodInsertArgs(modelPeriod)...); err != nil {
		return mapPeriodInsertError(err, modelPeriod)
	}
	return nil
}

// SavePeriodInTx inserts a new period within a transaction. Used by
// settlement to open the successor period atomically with the close.
func (r *PgxPeriodRepository) SavePeriodInTx(ctx context.Context, tx pgx.Tx, period domain.Period) error {
	modelPeriod := mapping.ToModelPeriod(period)
	if _, err := tx.Exec(ctx, insertPeriodQuery, periodInsertArgs(modelPeriod)...); err != nil {
		return mapPeriodInsertError(err, modelPeriod)
	}
	return nil
}

// FindPeriodByID retrieves a period by its ID.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE period_id = $1;`

	modelPeriod, err := scanPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period by ID %s: %w", periodID, err)
	}

	domainPeriod := mapping.ToDomainPeriod(*modelPeriod)
	return &domainPeriod, nil
}

// FindOpenPeriod retrieves the single currently open period.
func (r *PgxPeriodRepository) FindOpenPeriod(ctx context.Context) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE status = 'OPEN';`

	modelPeriod, err := scanPeriod(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find open period: %w", err)
	}

	domainPeriod := mapping.ToDomainPeriod(*modelPeriod)
	return &domainPeriod, nil
}

// FindOpenPeriodForUpdate retrieves the open period and locks its row.
// Every ledger write and the whole settlement sequence take this lock, so
// settlement can never race a concurrent recording.
func (r *PgxPeriodRepository) FindOpenPeriodForUpdate(ctx context.Context, tx pgx.Tx) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE status = 'OPEN' FOR UPDATE;`

	modelPeriod, err := scanPeriod(tx.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock open period: %w", err)
	}

	domainPeriod := mapping.ToDomainPeriod(*modelPeriod)
	return &domainPeriod, nil
}

// ListPeriods retrieves all periods, newest first.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context) ([]domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods ORDER BY start_date DESC;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query periods: %w", err)
	}
	defer rows.Close()

	modelPeriods := []models.Period{}
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		modelPeriods = append(modelPeriods, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", err)
	}

	return mapping.ToDomainPeriodSlice(modelPeriods), nil
}

// ClosePeriodInTx marks a period settled and stamps its end date. The status
// guard makes re-closing a settled period impossible at the store level.
func (r *PgxPeriodRepository) ClosePeriodInTx(ctx context.Context, tx pgx.Tx, period domain.Period) error {
	modelPeriod := mapping.ToModelPeriod(period)

	query := `
		UPDATE periods
		SET status = 'SETTLED', end_date = $2, last_updated_at = $3, last_updated_by = $4
		WHERE period_id = $1 AND status = 'OPEN';
	`
	cmdTag, err := tx.Exec(ctx, query,
		modelPeriod.PeriodID,
		modelPeriod.EndDate,
		modelPeriod.LastUpdatedAt,
		modelPeriod.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to close period %s: %w", modelPeriod.PeriodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: period %s is not open", apperrors.ErrIllegalState, modelPeriod.PeriodID)
	}
	return nil
}
