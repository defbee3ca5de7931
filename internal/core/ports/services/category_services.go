package services

import (
	"context"

	"github.com/divvyhq/divvy-backend/internal/core/domain"
	"github.com/divvyhq/divvy-backend/internal/dto"
)

// CategorySvcFacade defines the expense category operations.
type CategorySvcFacade interface {
	// CreateCategory adds a new category, optionally under a parent.
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, creatorUserID string) (*domain.Category, error)

	// GetCategoryByID retrieves a category by ID.
	GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// ListCategories retrieves all categories.
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
