package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/divvyhq/divvy-backend/internal/apperrors"
	"github.com/divvyhq/divvy-backend/internal/core/domain"
	portsrepo "github.com/divvyhq/divvy-backend/internal/core/ports/repositories"
	"github.com/divvyhq/divvy-backend/internal/models"
	"github.com/divvyhq/divvy-backend/internal/utils/mapping"
)

const memberColumns = `member_id, name, is_active, roster_seq, paid_remainder_in_cycle, created_at, created_by, last_updated_at, last_updated_by`

type PgxMemberRepository struct {
	BaseRepository
}

// newPgxMemberRepository creates a new repository for member data.
func newPgxMemberRepository(pool *pgxpool.Pool) portsrepo.MemberRepositoryWithTx {
	return &PgxMemberRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxMemberRepository implements portsrepo.MemberRepositoryWithTx
var _ portsrepo.MemberRepositoryWithTx = (*PgxMemberRepository)(nil)

func scanMember(row pgx.Row) (*models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.MemberID,
		&m.Name,
		&m.IsActive,
		&m.RosterSeq,
		&m.PaidRemainderInCycle,
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

// SaveMember inserts a new member. The roster sequence is assigned by the
// roster_seq bigserial so insertion order fixes the rotation order.
func (r *PgxMemberRepository) SaveMember(ctx context.Context, member domain.Member) (*domain.Member, error) {
	modelMember := mapping.ToModelMember(member)

	query := `
		INSERT INTO members (member_id, name, is_active, paid_remainder_in_cycle, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING roster_seq;
	`
	err := r.Pool.QueryRow(ctx, query,
		modelMember.MemberID,
		modelMember.Name,
		modelMember.IsActive,
		modelMember.PaidRemainderInCycle,
		modelMember.CreatedAt,
		modelMember.CreatedBy,
		modelMember.LastUpdatedAt,
		modelMember.LastUpdatedBy,
	).Scan(&modelMember.RosterSeq)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return nil, fmt.Errorf("%w: member named %q already exists", apperrors.ErrDuplicate, modelMember.Name)
		}
		return nil, fmt.Errorf("failed to save member %s: %w", modelMember.MemberID, err)
	}

	saved := mapping.ToDomainMember(modelMember)
	return &saved, nil
}

// FindMemberByID retrieves a member by its ID.
func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1;`

	modelMember, err := scanMember(r.Pool.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member by ID %s: %w", memberID, err)
	}

	domainMember := mapping.ToDomainMember(*modelMember)
	return &domainMember, nil
}

// FindMemberByName retrieves a member by its unique name.
func (r *PgxMemberRepository) FindMemberByName(ctx context.Context, name string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE name = $1;`

	modelMember, err := scanMember(r.Pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member by name %q: %w", name, err)
	}

	domainMember := mapping.ToDomainMember(*modelMember)
	return &domainMember, nil
}

// ListMembers retrieves members ordered by roster sequence.
func (r *PgxMemberRepository) ListMembers(ctx context.Context, activeOnly bool) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY roster_seq;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	modelMembers := []models.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		modelMembers = append(modelMembers, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return mapping.ToDomainMemberSlice(modelMembers), nil
}

// SetMemberActive activates or deactivates a member.
func (r *PgxMemberRepository) SetMemberActive(ctx context.Context, memberID string, active bool, userID string, now time.Time) error {
	query := `
		UPDATE members
		SET is_active = $2, last_updated_at = $3, last_updated_by = $4
		WHERE member_id = $1 AND is_active <> $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, memberID, active, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update active flag for member %s: %w", memberID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Either the member does not exist or it is already in the requested state.
		_, findErr := r.FindMemberByID(ctx, memberID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check member status after update attempt for %s: %w", memberID, findErr)
		}
		return fmt.Errorf("%w: member %s is already in the requested state", apperrors.ErrIllegalState, memberID)
	}

	return nil
}

// ListActiveMembersForUpdate retrieves active members in roster order and
// locks their rows so the rotation flags cannot move under a concurrent
// expense. Must be called within a transaction.
func (r *PgxMemberRepository) ListActiveMembersForUpdate(ctx context.Context, tx pgx.Tx) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE is_active = TRUE ORDER BY roster_seq FOR UPDATE;`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active members for update: %w", err)
	}
	defer rows.Close()

	modelMembers := []models.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked member row: %w", err)
		}
		modelMembers = append(modelMembers, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked member rows: %w", err)
	}

	return mapping.ToDomainMemberSlice(modelMembers), nil
}

// SetRemainderFlagsInTx sets paid_remainder_in_cycle for the given members.
func (r *PgxMemberRepository) SetRemainderFlagsInTx(ctx context.Context, tx pgx.Tx, memberIDs []string, flag bool, userID string, now time.Time) error {
	if len(memberIDs) == 0 {
		return nil
	}

	query := `
		UPDATE members
		SET paid_remainder_in_cycle = $2, last_updated_at = $3, last_updated_by = $4
		WHERE member_id = ANY($1);
	`
	cmdTag, err := tx.Exec(ctx, query, memberIDs, flag, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update remainder flags: %w", err)
	}
	if int(cmdTag.RowsAffected()) != len(memberIDs) {
		return fmt.Errorf("%w: expected to update %d remainder flags, updated %d", apperrors.ErrNotFound, len(memberIDs), cmdTag.RowsAffected())
	}
	return nil
}

// ResetAllRemainderFlagsInTx clears the rotation flag for every active member.
func (r *PgxMemberRepository) ResetAllRemainderFlagsInTx(ctx context.Context, tx pgx.Tx, userID string, now time.Time) error {
	query := `
		UPDATE members
		SET paid_remainder_in_cycle = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE is_active = TRUE AND paid_remainder_in_cycle = TRUE;
	`
	if _, err := tx.Exec(ctx, query, now, userID); err != nil {
		return fmt.Errorf("failed to reset remainder flags: %w", err)
	}
	return nil
}
