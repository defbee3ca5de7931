package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/divvyhq/divvy-backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository against one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		MemberRepo:   newPgxMemberRepository(dbPool),
		CategoryRepo: newPgxCategoryRepository(dbPool),
		PeriodRepo:   newPgxPeriodRepository(dbPool),
		LedgerRepo:   newPgxLedgerRepository(dbPool),
		UserRepo:     newPgxUserRepository(dbPool),
	}
}
