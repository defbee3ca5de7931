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

type CategoryServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCategoryRepository
	service  portssvc.CategorySvcFacade
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCategoryRepository)
	suite.service = services.NewCategoryService(suite.mockRepo)
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_Root() {
	ctx := context.Background()
	creatorID := uuid.NewString()

	suite.mockRepo.On("SaveCategory", ctx, mock.MatchedBy(func(c domain.Category) bool {
		return c.Name == "Groceries" && c.ParentID == nil && c.CreatedBy == creatorID
	})).Return(nil).Once()

	category, err := suite.service.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "  Groceries  "}, creatorID)

	suite.Require().NoError(err)
	suite.Equal("Groceries", category.Name)
	suite.NotEmpty(category.CategoryID)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockRepo.AssertNotCalled(suite.T(), "FindCategoryByID")
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_UnderParent() {
	ctx := context.Background()
	parentID := uuid.NewString()

	suite.mockRepo.On("FindCategoryByID", ctx, parentID).
		Return(&domain.Category{CategoryID: parentID, Name: "Household"}, nil).Once()
	suite.mockRepo.On("SaveCategory", ctx, mock.MatchedBy(func(c domain.Category) bool {
		return c.Name == "Cleaning" && c.ParentID != nil && *c.ParentID == parentID
	})).Return(nil).Once()

	category, err := suite.service.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Cleaning", ParentID: &parentID}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(parentID, *category.ParentID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_MissingParent() {
	ctx := context.Background()
	parentID := uuid.NewString()

	suite.mockRepo.On("FindCategoryByID", ctx, parentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Cleaning", ParentID: &parentID}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCategory")
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_EmptyName() {
	_, err := suite.service.CreateCategory(context.Background(), dto.CreateCategoryRequest{Name: "   "}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCategory")
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_DuplicateInScope() {
	ctx := context.Background()

	suite.mockRepo.On("SaveCategory", ctx, mock.AnythingOfType("domain.Category")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Groceries"}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *CategoryServiceTestSuite) TestListCategories() {
	ctx := context.Background()
	expected := []domain.Category{
		{CategoryID: uuid.NewString(), Name: "Groceries"},
		{CategoryID: uuid.NewString(), Name: "Utilities"},
	}
	suite.mockRepo.On("ListCategories", ctx).Return(expected, nil).Once()

	categories, err := suite.service.ListCategories(ctx)

	suite.Require().NoError(err)
	suite.Equal(expected, categories)
}

func TestCategoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}
