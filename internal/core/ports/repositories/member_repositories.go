package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/divvyhq/divvy-backend/internal/core/domain"
)

// MemberReader defines read operations for member data
type MemberReader interface {
	// FindMemberByID retrieves a member by its unique identifier.
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// FindMemberByName retrieves a member by its unique name.
	FindMemberByName(ctx context.Context, name string) (*domain.Member, error)

	// ListMembers retrieves all members ordered by roster sequence.
	// When activeOnly is true, deactivated members are excluded.
	ListMembers(ctx context.Context, activeOnly bool) ([]domain.Member, error)
}

// MemberWriter defines write operations for member data
type MemberWriter interface {
	// SaveMember persists a new member. The roster sequence is assigned by
	// the store.
	SaveMember(ctx context.Context, member domain.Member) (*domain.Member, error)

	// SetMemberActive activates or deactivates a member.
	SetMemberActive(ctx context.Context, memberID string, active bool, userID string, now time.Time) error
}

// MemberRotationManager covers the round-robin flag operations that must run
// inside the same transaction as the ledger write they accompany.
type MemberRotationManager interface {
	// ListActiveMembersForUpdate retrieves active members ordered by roster
	// sequence and locks their rows. Must be called within a transaction.
	ListActiveMembersForUpdate(ctx context.Context, tx pgx.Tx) ([]domain.Member, error)

	// SetRemainderFlagsInTx sets paid_remainder_in_cycle for the given
	// member IDs within a transaction.
	SetRemainderFlagsInTx(ctx context.Context, tx pgx.Tx, memberIDs []string, flag bool, userID string, now time.Time) error

	// ResetAllRemainderFlagsInTx clears the rotation flag for every active
	// member within a transaction.
	ResetAllRemainderFlagsInTx(ctx context.Context, tx pgx.Tx, userID string, now time.Time) error
}

// MemberRepositoryFacade combines all member-related repository interfaces
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
	MemberRotationManager
}

// MemberRepositoryWithTx extends MemberRepositoryFacade with transaction capabilities
type MemberRepositoryWithTx interface {
	MemberRepositoryFacade
	TransactionManager
}
