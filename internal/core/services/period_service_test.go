package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/divvyhq/divvy-backend/internal/apperrors"
	"github.com/divvyhq/divvy-backend/internal/core/domain"
	portssvc "github.com/divvyhq/divvy-backend/internal/core/ports/services"
	"github.com/divvyhq/divvy-backend/internal/core/services"
)

type PeriodServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo *MockPeriodRepository
	mockLedgerRepo *MockLedgerRepository
	service        portssvc.PeriodSvcFacade
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewPeriodService(suite.mockPeriodRepo, suite.mockLedgerRepo)
}

func (suite *PeriodServiceTestSuite) TestGetCurrentPeriod_Success() {
	ctx := context.Background()
	open := &domain.Period{PeriodID: uuid.NewString(), Name: "March", Status: domain.PeriodOpen}

	suite.mockPeriodRepo.On("FindOpenPeriod", ctx).Return(open, nil).Once()

	period, err := suite.service.GetCurrentPeriod(ctx)

	suite.Require().NoError(err)
	suite.Equal(open.PeriodID, period.PeriodID)
}

func (suite *PeriodServiceTestSuite) TestGetCurrentPeriod_NoneOpen() {
	ctx := context.Background()

	suite.mockPeriodRepo.On("FindOpenPeriod", ctx).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetCurrentPeriod(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIllegalState)
}

func (suite *PeriodServiceTestSuite) TestGetPeriodSummary() {
	ctx := context.Background()
	periodID := uuid.NewString()
	settled := &domain.Period{PeriodID: periodID, Name: "February", Status: domain.PeriodSettled}

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, periodID).Return(settled, nil).Once()
	suite.mockLedgerRepo.On("GetPeriodTotals", ctx, periodID).Return(int64(12000), int64(9500), 7, nil).Once()
	suite.mockLedgerRepo.On("SumFundBalance", ctx, (*string)(nil)).Return(int64(2500), nil).Once()

	summary, err := suite.service.GetPeriodSummary(ctx, periodID)

	suite.Require().NoError(err)
	suite.Equal("February", summary.PeriodName)
	suite.True(summary.IsSettled)
	suite.Equal(int64(12000), summary.DepositTotal)
	suite.Equal(int64(9500), summary.ExpenseTotal)
	suite.Equal(7, summary.BatchCount)
	suite.Equal(int64(2500), summary.FundBalance)

	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestGetPeriodSummary_UnknownPeriod() {
	ctx := context.Background()
	periodID := uuid.NewString()

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, periodID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetPeriodSummary(ctx, periodID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "GetPeriodTotals")
}

func (suite *PeriodServiceTestSuite) TestListPeriods() {
	ctx := context.Background()
	expected := []domain.Period{
		{PeriodID: uuid.NewString(), Name: "March", Status: domain.PeriodOpen},
		{PeriodID: uuid.NewString(), Name: "February", Status: domain.PeriodSettled},
	}
	suite.mockPeriodRepo.On("ListPeriods", ctx).Return(expected, nil).Once()

	periods, err := suite.service.ListPeriods(ctx)

	suite.Require().NoError(err)
	suite.Equal(expected, periods)
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}
