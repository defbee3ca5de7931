package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/divvyhq/divvy-backend/internal/core/domain"
	portsrepo "github.com/divvyhq/divvy-backend/internal/core/ports/repositories"
)

// fakeTx stands in for a live transaction handle. Services only ever pass it
// back to the mocked repositories, so none of its methods are called.
type fakeTx struct {
	pgx.Tx
}

// MockMemberRepository is a mock type for the MemberRepositoryWithTx interface
type MockMemberRepository struct {
	mock.Mock
}

var _ portsrepo.MemberRepositoryWithTx = (*MockMemberRepository)(nil)

func (m *MockMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) FindMemberByName(ctx context.Context, name string) (*domain.Member, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) ListMembers(ctx context.Context, activeOnly bool) ([]domain.Member, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberRepository) SaveMember(ctx context.Context, member domain.Member) (*domain.Member, error) {
	args := m.Called(ctx, member)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) SetMemberActive(ctx context.Context, memberID string, active bool, userID string, now time.Time) error {
	args := m.Called(ctx, memberID, active, userID, now)
	return args.Error(0)
}

func (m *MockMemberRepository) ListActiveMembersForUpdate(ctx context.Context, tx pgx.Tx) ([]domain.Member, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberRepository) SetRemainderFlagsInTx(ctx context.Context, tx pgx.Tx, memberIDs []string, flag bool, userID string, now time.Time) error {
	args := m.Called(ctx, tx, memberIDs, flag, userID, now)
	return args.Error(0)
}

func (m *MockMemberRepository) ResetAllRemainderFlagsInTx(ctx context.Context, tx pgx.Tx, userID string, now time.Time) error {
	args := m.Called(ctx, tx, userID, now)
	return args.Error(0)
}

func (m *MockMemberRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockMemberRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockMemberRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockCategoryRepository is a mock type for the CategoryRepositoryFacade interface
type MockCategoryRepository struct {
	mock.Mock
}

var _ portsrepo.CategoryRepositoryFacade = (*MockCategoryRepository)(nil)

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindCategoryByName(ctx context.Context, name string, parentID *string) (*domain.Category, error) {
	args := m.Called(ctx, name, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// MockPeriodRepository is a mock type for the PeriodRepositoryWithTx interface
type MockPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.PeriodRepositoryWithTx = (*MockPeriodRepository)(nil)

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.Period, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) FindOpenPeriod(ctx context.Context) (*domain.Period, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriods(ctx context.Context) ([]domain.Period, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) SavePeriod(ctx context.Context, period domain.Period) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) FindOpenPeriodForUpdate(ctx context.Context, tx pgx.Tx) (*domain.Period, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockPeriodRepository) ClosePeriodInTx(ctx context.Context, tx pgx.Tx, period domain.Period) error {
	args := m.Called(ctx, tx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) SavePeriodInTx(ctx context.Context, tx pgx.Tx, period domain.Period) error {
	args := m.Called(ctx, tx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockPeriodRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockPeriodRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryWithTx interface
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryWithTx = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.LedgerBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerBatch), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByBatchID(ctx context.Context, batchID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListBatchesByPeriod(ctx context.Context, periodID string) ([]domain.LedgerBatch, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerBatch), args.Error(1)
}

func (m *MockLedgerRepository) SaveBatchInTx(ctx context.Context, tx pgx.Tx, batch domain.LedgerBatch, entries []domain.LedgerEntry) error {
	args := m.Called(ctx, tx, batch, entries)
	return args.Error(0)
}

func (m *MockLedgerRepository) SumMemberBalances(ctx context.Context, periodID *string) (map[string]int64, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockLedgerRepository) SumFundBalance(ctx context.Context, periodID *string) (int64, error) {
	args := m.Called(ctx, periodID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) SumMemberBalancesInTx(ctx context.Context, tx pgx.Tx, periodID *string) (map[string]int64, error) {
	args := m.Called(ctx, tx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockLedgerRepository) SumFundBalanceInTx(ctx context.Context, tx pgx.Tx, periodID *string) (int64, error) {
	args := m.Called(ctx, tx, periodID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) SumFundDrawInTx(ctx context.Context, tx pgx.Tx, periodID string) (int64, error) {
	args := m.Called(ctx, tx, periodID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) GetPeriodTotals(ctx context.Context, periodID string) (int64, int64, int, error) {
	args := m.Called(ctx, periodID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Int(2), args.Error(3)
}

func (m *MockLedgerRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockLedgerRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
