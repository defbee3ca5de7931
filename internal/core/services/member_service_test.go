package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/divvyhq/divvy-backend/internal/apperrors"
	"github.com/divvyhq/divvy-backend/internal/core/domain"
	"github.com/divvyhq/divvy-backend/internal/core/services"
	portssvc "github.com/divvyhq/divvy-backend/internal/core/ports/services"
	"github.com/divvyhq/divvy-backend/internal/dto"
)

type MemberServiceTestSuite struct {
	suite.Suite
	mockRepo *MockMemberRepository
	service  portssvc.MemberSvcFacade
}

func (suite *MemberServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockMemberRepository)
	suite.service = services.NewMemberService(suite.mockRepo)
}

func (suite *MemberServiceTestSuite) TestCreateMember_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateMemberRequest{Name: "Alice"}

	suite.mockRepo.On("FindMemberByName", ctx, "Alice").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveMember", ctx, mock.AnythingOfType("domain.Member")).
		Return(&domain.Member{MemberID: uuid.NewString(), Name: "Alice", IsActive: true, RosterSeq: 1}, nil).Once()

	created, err := suite.service.CreateMember(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal("Alice", created.Name)
	suite.True(created.IsActive)

	savedArg := suite.mockRepo.Calls[1].Arguments.Get(1).(domain.Member)
	suite.False(savedArg.PaidRemainderInCycle)
	suite.Equal(creatorUserID, savedArg.CreatedBy)
	suite.WithinDuration(time.Now(), savedArg.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestCreateMember_TrimsName() {
	ctx := context.Background()

	suite.mockRepo.On("FindMemberByName", ctx, "Bob").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveMember", ctx, mock.MatchedBy(func(m domain.Member) bool {
		return m.Name == "Bob"
	})).Return(&domain.Member{Name: "Bob", IsActive: true}, nil).Once()

	_, err := suite.service.CreateMember(ctx, dto.CreateMemberRequest{Name: "  Bob  "}, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestCreateMember_EmptyName() {
	_, err := suite.service.CreateMember(context.Background(), dto.CreateMemberRequest{Name: "   "}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveMember")
}

func (suite *MemberServiceTestSuite) TestCreateMember_DuplicateActive() {
	ctx := context.Background()
	existing := &domain.Member{MemberID: uuid.NewString(), Name: "Alice", IsActive: true}

	suite.mockRepo.On("FindMemberByName", ctx, "Alice").Return(existing, nil).Once()

	_, err := suite.service.CreateMember(ctx, dto.CreateMemberRequest{Name: "Alice"}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveMember")
}

func (suite *MemberServiceTestSuite) TestCreateMember_DuplicateInactiveSuggestsReactivate() {
	ctx := context.Background()
	existing := &domain.Member{MemberID: uuid.NewString(), Name: "Carol", IsActive: false}

	suite.mockRepo.On("FindMemberByName", ctx, "Carol").Return(existing, nil).Once()

	_, err := suite.service.CreateMember(ctx, dto.CreateMemberRequest{Name: "Carol"}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Contains(err.Error(), "reactivate")
}

func (suite *MemberServiceTestSuite) TestListMembers_PassesActiveOnly() {
	ctx := context.Background()
	members := []domain.Member{
		{MemberID: "m1", Name: "Alice", IsActive: true, RosterSeq: 1},
		{MemberID: "m2", Name: "Bob", IsActive: true, RosterSeq: 2},
	}

	suite.mockRepo.On("ListMembers", ctx, true).Return(members, nil).Once()

	got, err := suite.service.ListMembers(ctx, true)

	suite.Require().NoError(err)
	suite.Len(got, 2)
	suite.Equal("Alice", got[0].Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestDeactivateMember_Success() {
	ctx := context.Background()
	memberID := uuid.NewString()
	requesterID := uuid.NewString()

	suite.mockRepo.On("SetMemberActive", ctx, memberID, false, requesterID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.service.DeactivateMember(ctx, memberID, requesterID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestDeactivateMember_AlreadyInactive() {
	ctx := context.Background()
	memberID := uuid.NewString()

	suite.mockRepo.On("SetMemberActive", ctx, memberID, false, mock.Anything, mock.AnythingOfType("time.Time")).
		Return(fmt.Errorf("%w: member is already inactive", apperrors.ErrIllegalState)).Once()

	err := suite.service.DeactivateMember(ctx, memberID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIllegalState)
}

func (suite *MemberServiceTestSuite) TestReactivateMember_Success() {
	ctx := context.Background()
	memberID := uuid.NewString()
	requesterID := uuid.NewString()

	suite.mockRepo.On("SetMemberActive", ctx, memberID, true, requesterID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.service.ReactivateMember(ctx, memberID, requesterID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestMemberServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MemberServiceTestSuite))
}
