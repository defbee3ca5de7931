package dto

import (
	"github.com/divvyhq/divvy-backend/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to add an expense category.
type CreateCategoryRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=100"`
	ParentID *string `json:"parentID,omitempty"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID string  `json:"categoryID"`
	Name       string  `json:"name"`
	ParentID   *string `json:"parentID,omitempty"`
}

// ListCategoriesResponse wraps the list of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToCategoryResponse converts a domain.Category to CategoryResponse DTO.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		ParentID:   c.ParentID,
	}
}

// ToListCategoriesResponse converts a slice of domain.Category to ListCategoriesResponse DTO.
func ToListCategoriesResponse(categories []domain.Category) ListCategoriesResponse {
	responses := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = ToCategoryResponse(&c)
	}
	return ListCategoriesResponse{Categories: responses}
}
