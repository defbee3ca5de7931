package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/divvyhq/divvy-backend/internal/apperrors"
	"github.com/divvyhq/divvy-backend/internal/core/domain"
	portssvc "github.com/divvyhq/divvy-backend/internal/core/ports/services"
	"github.com/divvyhq/divvy-backend/internal/core/services"
	"github.com/divvyhq/divvy-backend/internal/dto"
)

type RecorderServiceTestSuite struct {
	suite.Suite
	mockMemberRepo   *MockMemberRepository
	mockCategoryRepo *MockCategoryRepository
	mockPeriodRepo   *MockPeriodRepository
	mockLedgerRepo   *MockLedgerRepository
	service          portssvc.RecorderSvcFacade

	tx         *fakeTx
	openPeriod *domain.Period
	roster     []domain.Member

	savedBatch   domain.LedgerBatch
	savedEntries []domain.LedgerEntry
}

func (suite *RecorderServiceTestSuite) SetupTest() {
	suite.mockMemberRepo = new(MockMemberRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewRecorderService(
		suite.mockMemberRepo,
		suite.mockCategoryRepo,
		suite.mockPeriodRepo,
		suite.mockLedgerRepo,
	)

	suite.tx = new(fakeTx)
	suite.openPeriod = &domain.Period{
		PeriodID: uuid.NewString(),
		Name:     "March",
		Status:   domain.PeriodOpen,
	}
	suite.roster = []domain.Member{
		{MemberID: "m-alice", Name: "Alice", IsActive: true, RosterSeq: 1},
		{MemberID: "m-bob", Name: "Bob", IsActive: true, RosterSeq: 2},
		{MemberID: "m-carol", Name: "Carol", IsActive: true, RosterSeq: 3},
	}
	suite.savedBatch = domain.LedgerBatch{}
	suite.savedEntries = nil
}

// expectTx wires the Begin/Rollback pair every write runs through.
func (suite *RecorderServiceTestSuite) expectTx() {
	suite.mockLedgerRepo.On("Begin", mock.Anything).Return(suite.tx, nil).Once()
	suite.mockLedgerRepo.On("Rollback", mock.Anything, suite.tx).Return(nil)
}

// expectSave captures the batch and entries handed to the repository.
func (suite *RecorderServiceTestSuite) expectSave() {
	suite.mockLedgerRepo.On("SaveBatchInTx", mock.Anything, suite.tx, mock.AnythingOfType("domain.LedgerBatch"), mock.AnythingOfType("[]domain.LedgerEntry")).
		Run(func(args mock.Arguments) {
			suite.savedBatch = args.Get(2).(domain.LedgerBatch)
			suite.savedEntries = args.Get(3).([]domain.LedgerEntry)
		}).Return(nil).Once()
	suite.mockLedgerRepo.On("Commit", mock.Anything, suite.tx).Return(nil).Once()
}

// sumByParticipant returns the signed totals per participant kind.
func (suite *RecorderServiceTestSuite) sumByParticipant() map[domain.ParticipantKind]int64 {
	totals := map[domain.ParticipantKind]int64{}
	for _, e := range suite.savedEntries {
		totals[e.Participant] += e.SignedAmount()
	}
	return totals
}

func (suite *RecorderServiceTestSuite) findMemberEntry(memberID string, dir domain.EntryDirection) *domain.LedgerEntry {
	for i := range suite.savedEntries {
		e := &suite.savedEntries[i]
		if e.Participant == domain.ParticipantMember && e.MemberID != nil && *e.MemberID == memberID && e.Direction == dir {
			return e
		}
	}
	return nil
}

func (suite *RecorderServiceTestSuite) TestRecordExpense_SplitsWithRemainder() {
	ctx := context.Background()
	category := domain.Category{CategoryID: uuid.NewString(), Name: "Groceries"}

	suite.mockCategoryRepo.On("ListCategories", ctx).Return([]domain.Category{category}, nil).Once()
	suite.mockMemberRepo.On("FindMemberByName", ctx, "Bob").Return(&suite.roster[1], nil).Once()
	suite.expectTx()
	suite.mockPeriodRepo.On("FindOpenPeriodForUpdate", ctx, suite.tx).Return(suite.openPeriod, nil).Once()
	suite.mockMemberRepo.On("ListActiveMembersForUpdate", ctx, suite.tx).Return(suite.roster, nil).Once()
	// 1000 / 3 leaves a remainder, so the rotation advances to Alice
	suite.mockMemberRepo.On("SetRemainderFlagsInTx", ctx, suite.tx, []string{"m-alice"}, true, mock.Anything, mock.Anything).Return(nil).Once()
	suite.expectSave()

	receipt, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
		Description:  "Weekly groceries",
		Amount:       "10.00",
		PayerName:    "Bob",
		CategoryName: "Groceries",
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().NotNil(receipt)
	suite.Equal(domain.BatchExpense, suite.savedBatch.Kind)
	suite.Equal(suite.openPeriod.PeriodID, suite.savedBatch.PeriodID)
	suite.Require().NotNil(suite.savedBatch.CategoryID)
	suite.Equal(category.CategoryID, *suite.savedBatch.CategoryID)

	// Alice holds the remainder: 334; the others owe 333; Bob is also
	// credited the full amount he paid.
	suite.Equal(int64(334), suite.findMemberEntry("m-alice", domain.Debit).Amount)
	suite.Equal(int64(333), suite.findMemberEntry("m-bob", domain.Debit).Amount)
	suite.Equal(int64(333), suite.findMemberEntry("m-carol", domain.Debit).Amount)
	suite.Equal(int64(1000), suite.findMemberEntry("m-bob", domain.Credit).Amount)

	// Debits equal credits
	var debits, credits int64
	for _, e := range suite.savedEntries {
		if e.Direction == domain.Debit {
			debits += e.Amount
		} else {
			credits += e.Amount
		}
	}
	suite.Equal(debits, credits)

	suite.Equal("Expense 'Weekly groceries' of 10.00 recorded successfully. Remainder of 0.01 assigned to Alice.", receipt.Confirmation)

	suite.mockMemberRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *RecorderServiceTestSuite) TestRecordExpense_EvenSplitSkipsRotation() {
	ctx := context.Background()
	roster := suite.roster[:2]
	category := domain.Category{CategoryID: uuid.NewString(), Name: "Utilities"}

	suite.mockCategoryRepo.On("ListCategories", ctx).Return([]domain.Category{category}, nil).Once()
	suite.mockMemberRepo.On("FindMemberByName", ctx, "Alice").Return(&suite.roster[0], nil).Once()
	suite.expectTx()
	suite.mockPeriodRepo.On("FindOpenPeriodForUpdate", ctx, suite.tx).Return(suite.openPeriod, nil).Once()
	suite.mockMemberRepo.On("ListActiveMembersForUpdate", ctx, suite.tx).Return(roster, nil).Once()
	suite.expectSave()

	receipt, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
		Description:  "Electricity",
		Amount:       "50.00",
		PayerName:    "Alice",
		CategoryName: "Utilities",
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(int64(2500), suite.findMemberEntry("m-alice", domain.Debit).Amount)
	suite.Equal(int64(2500), suite.findMemberEntry("m-bob", domain.Debit).Amount)
	suite.Contains(receipt.Confirmation, "Remainder of 0.00 assigned to N/A.")

	// No remainder means no rotation flag writes
	suite.mockMemberRepo.AssertNotCalled(suite.T(), "SetRemainderFlagsInTx")
	suite.mockMemberRepo.AssertNotCalled(suite.T(), "ResetAllRemainderFlagsInTx")
}

func (suite *RecorderServiceTestSuite) TestRecordExpense_RotationResetWhenCycleExhausted() {
	ctx := context.Background()
	roster := []domain.Member{
		{MemberID: "m-alice", Name: "Alice", IsActive: true, RosterSeq: 1, PaidRemainderInCycle: true},
		{MemberID: "m-bob", Name: "Bob", IsActive: true, RosterSeq: 2, PaidRemainderInCycle: true},
		{MemberID: "m-carol", Name: "Carol", IsActive: true, RosterSeq: 3, PaidRemainderInCycle: true},
	}
	category := domain.Category{CategoryID: uuid.NewString(), Name: "Groceries"}

	suite.mockCategoryRepo.On("ListCategories", ctx).Return([]domain.Category{category}, nil).Once()
	suite.mockMemberRepo.On("FindMemberByName", ctx, "Bob").Return(&roster[1], nil).Once()
	suite.expectTx()
	suite.mockPeriodRepo.On("FindOpenPeriodForUpdate", ctx, suite.tx).Return(suite.openPeriod, nil).Once()
	suite.mockMemberRepo.On("ListActiveMembersForUpdate", ctx, suite.tx).Return(roster, nil).Once()
	// Everyone already paid a remainder, so the cycle resets and Alice starts the next one
	suite.mockMemberRepo.On("ResetAllRemainderFlagsInTx", ctx, suite.tx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockMemberRepo.On("SetRemainderFlagsInTx", ctx, suite.tx, []string{"m-alice"}, true, mock.Anything, mock.Anything).Return(nil).Once()
	suite.expectSave()

	_, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
		Description:  "Snacks",
		Amount:       "0.10",
		PayerName:    "Bob",
		CategoryName: "Groceries",
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(int64(4), suite.findMemberEntry("m-alice", domain.Debit).Amount)
	suite.mockMemberRepo.AssertExpectations(suite.T())
}

func (suite *RecorderServiceTestSuite) TestRecordExpense_FundPaidWithPartialOffset() {
	ctx := context.Background()
	roster := suite.roster[:2]
	category := domain.Category{CategoryID: uuid.NewString(), Name: "Household"}

	suite.mockCategoryRepo.On("ListCategories", ctx).Return([]domain.Category{category}, nil).Once()
	suite.expectTx()
	suite.mockPeriodRepo.On("FindOpenPeriodForUpdate", ctx, suite.tx).Return(suite.openPeriod, nil).Once()
	suite.mockMemberRepo.On("ListActiveMembersForUpdate", ctx, suite.tx).Return(roster, nil).Once()
	// Fund covers 30.00 of the 50.00 expense; members split the 20.00 residual
	suite.mockLedgerRepo.On("SumFundBalanceInTx", ctx, suite.tx, (*string)(nil)).Return(int64(3000), nil).Once()
	suite.expectSave()

	receipt, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
		Description:  "Cleaning supplies",
		Amount:       "50.00",
		PaidFromFund: true,
		CategoryName: "Household",
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().NotNil(receipt)

	suite.Equal(int64(1000), suite.findMemberEntry("m-alice", domain.Debit).Amount)
	suite.Equal(int64(1000), suite.findMemberEntry("m-bob", domain.Debit).Amount)

	totals := suite.sumByParticipant()
	suite.Equal(int64(-3000), totals[domain.ParticipantFund])
	suite.Equal(int64(5000), totals[domain.ParticipantExternal])
	suite.Equal(int64(-2000), totals[domain.ParticipantMember])

	// No member was ever resolved for a fund-paid expense
	suite.mockMemberRepo.AssertNotCalled(suite.T(), "FindMemberByName")
}

func (suite *RecorderServiceTestSuite) TestRecordExpense_FundDepletedCoversFully() {
	ctx := context.Background()
	roster := suite.roster[:2]
	category := domain.Category{CategoryID: uuid.NewString(), Name: "Household"}

	suite.mockCategoryRepo.On("ListCategories", ctx).Return([]domain.Category{category}, nil).Once()
	suite.expectTx()
	suite.mockPeriodRepo.On("FindOpenPeriodForUpdate", ctx, suite.tx).Return(suite.openPeriod, nil).Once()
	suite.mockMemberRepo.On("ListActiveMembersForUpdate", ctx, suite.tx).Return(roster, nil).Once()
	// Fund balance exceeds the expense, so members owe nothing
	suite.mockLedgerRepo.On("SumFundBalanceInTx", ctx, suite.tx, (*string)(nil)).Return(int64(10000), nil).Once()
	suite.expectSave()

	_, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
		Description:  "Pizza night",
		Amount:       "40.00",
		PaidFromFund: true,
		CategoryName: "Household",
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Nil(suite.findMemberEntry("m-alice", domain.Debit))
	suite.Nil(suite.findMemberEntry("m-bob", domain.Debit))

	totals := suite.sumByParticipant()
	suite.Equal(int64(-4000), totals[domain.ParticipantFund])
	suite.Equal(int64(4000), totals[domain.ParticipantExternal])
}

func (suite *RecorderServiceTestSuite) TestRecordExpense_EmptyRoster() {
	ctx := context.Background()
	category := domain.Category{CategoryID: uuid.NewString(), Name: "Groceries"}

	suite.mockCategoryRepo.On("ListCategories", ctx).Return([]domain.Category{category}, nil).Once()
	suite.mockMemberRepo.On("FindMemberByName", ctx, "Bob").Return(&suite.roster[1], nil).Once()
	suite.expectTx()
	suite.mockPeriodRepo.On("FindOpenPeriodForUpdate", ctx, suite.tx).Return(suite.openPeriod, nil).Once()
	suite.mockMemberRepo.On("ListActiveMembersForUpdate", ctx, suite.tx).Return([]domain.Member{}, nil).Once()

	_, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
		Description:  "Groceries",
		Amount:       "10.00",
		PayerName:    "Bob",
		CategoryName: "Groceries",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveBatchInTx")
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "Commit")
}

func (suite *RecorderServiceTestSuite) TestRecordExpense_NoOpenPeriod() {
	ctx := context.Background()
	category := domain.Category{CategoryID: uuid.NewString(), Name: "Groceries"}

	suite.mockCategoryRepo.On("ListCategories", ctx).Return([]domain.Category{category}, nil).Once()
	suite.mockMemberRepo.On("FindMemberByName", ctx, "Bob").Return(&suite.roster[1], nil).Once()
	suite.expectTx()
	suite.mockPeriodRepo.On("FindOpenPeriodForUpdate", ctx, suite.tx).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
		Description:  "Groceries",
		Amount:       "10.00",
		PayerName:    "Bob",
		CategoryName: "Groceries",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIllegalState)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveBatchInTx")
}

func (suite *RecorderServiceTestSuite) TestRecordExpense_RejectsBadAmounts() {
	ctx := context.Background()

	for _, amount := range []string{"0", "-5.00", "abc", "1.005"} {
		_, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
			Description:  "Groceries",
			Amount:       amount,
			PayerName:    "Bob",
			CategoryName: "Groceries",
		}, uuid.NewString())

		suite.Require().Error(err, "amount %q should be rejected", amount)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "Begin")
}

func (suite *RecorderServiceTestSuite) TestRecordExpense_UnknownPayer() {
	ctx := context.Background()
	category := domain.Category{CategoryID: uuid.NewString(), Name: "Groceries"}

	suite.mockCategoryRepo.On("ListCategories", ctx).Return([]domain.Category{category}, nil).Once()
	suite.mockMemberRepo.On("FindMemberByName", ctx, "Nobody").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
		Description:  "Groceries",
		Amount:       "10.00",
		PayerName:    "Nobody",
		CategoryName: "Groceries",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RecorderServiceTestSuite) TestRecordExpense_UnknownCategory() {
	ctx := context.Background()

	suite.mockCategoryRepo.On("ListCategories", ctx).Return([]domain.Category{}, nil).Once()

	_, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
		Description:  "Groceries",
		Amount:       "10.00",
		PayerName:    "Bob",
		CategoryName: "Nonexistent",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RecorderServiceTestSuite) TestRecordDeposit_ToMember() {
	ctx := context.Background()

	suite.mockMemberRepo.On("FindMemberByName", ctx, "Alice").Return(&suite.roster[0], nil).Once()
	suite.expectTx()
	suite.mockPeriodRepo.On("FindOpenPeriodForUpdate", ctx, suite.tx).Return(suite.openPeriod, nil).Once()
	suite.expectSave()

	receipt, err := suite.service.RecordDeposit(ctx, dto.RecordDepositRequest{
		Description: "March contribution",
		Amount:      "25.00",
		MemberName:  "Alice",
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(domain.BatchDeposit, suite.savedBatch.Kind)
	suite.Require().Len(suite.savedEntries, 2)
	suite.Equal(int64(2500), suite.findMemberEntry("m-alice", domain.Credit).Amount)

	totals := suite.sumByParticipant()
	suite.Equal(int64(2500), totals[domain.ParticipantMember])
	suite.Equal(int64(-2500), totals[domain.ParticipantExternal])

	suite.Equal("Deposit of 25.00 for Alice recorded successfully.", receipt.Confirmation)
}

func (suite *RecorderServiceTestSuite) TestRecordDeposit_ToFund() {
	ctx := context.Background()

	suite.expectTx()
	suite.mockPeriodRepo.On("FindOpenPeriodForUpdate", ctx, suite.tx).Return(suite.openPeriod, nil).Once()
	suite.expectSave()

	receipt, err := suite.service.RecordDeposit(ctx, dto.RecordDepositRequest{
		Description: "Jar top-up",
		Amount:      "15.00",
		ToFund:      true,
	}, uuid.NewString())

	suite.Require().NoError(err)

	totals := suite.sumByParticipant()
	suite.Equal(int64(1500), totals[domain.ParticipantFund])
	suite.Equal(int64(-1500), totals[domain.ParticipantExternal])

	suite.Equal("Deposit of 15.00 for the public fund recorded successfully.", receipt.Confirmation)
	suite.mockMemberRepo.AssertNotCalled(suite.T(), "FindMemberByName")
}

func (suite *RecorderServiceTestSuite) TestRecordRefund_Success() {
	ctx := context.Background()

	suite.mockMemberRepo.On("FindMemberByName", ctx, "Carol").Return(&suite.roster[2], nil).Once()
	suite.expectTx()
	suite.mockPeriodRepo.On("FindOpenPeriodForUpdate", ctx, suite.tx).Return(suite.openPeriod, nil).Once()
	suite.expectSave()

	receipt, err := suite.service.RecordRefund(ctx, dto.RecordRefundRequest{
		Description: "overpaid deposit",
		Amount:      "12.50",
		MemberName:  "Carol",
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(domain.BatchRefund, suite.savedBatch.Kind)
	suite.Equal("Refund: overpaid deposit", suite.savedBatch.Description)
	suite.Equal(int64(1250), suite.findMemberEntry("m-carol", domain.Debit).Amount)

	totals := suite.sumByParticipant()
	suite.Equal(int64(-1250), totals[domain.ParticipantMember])
	suite.Equal(int64(1250), totals[domain.ParticipantExternal])

	suite.Equal("Refund of 12.50 to Carol recorded successfully.", receipt.Confirmation)
}

func (suite *RecorderServiceTestSuite) TestGetBatchByID() {
	ctx := context.Background()
	batchID := uuid.NewString()
	memberID := "m-alice"
	batch := &domain.LedgerBatch{BatchID: batchID, Kind: domain.BatchDeposit}
	entries := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), BatchID: batchID, Direction: domain.Debit, Participant: domain.ParticipantExternal, Amount: 2500},
		{EntryID: uuid.NewString(), BatchID: batchID, Direction: domain.Credit, Participant: domain.ParticipantMember, MemberID: &memberID, Amount: 2500},
	}

	suite.mockLedgerRepo.On("FindBatchByID", ctx, batchID).Return(batch, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByBatchID", ctx, batchID).Return(entries, nil).Once()

	detail, err := suite.service.GetBatchByID(ctx, batchID)

	suite.Require().NoError(err)
	suite.Equal(batchID, detail.Batch.BatchID)
	suite.Len(detail.Entries, 2)
}

func (suite *RecorderServiceTestSuite) TestListBatchesByPeriod_UnknownPeriod() {
	ctx := context.Background()
	periodID := uuid.NewString()

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, periodID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListBatchesByPeriod(ctx, periodID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ListBatchesByPeriod")
}

func TestRecorderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecorderServiceTestSuite))
}
