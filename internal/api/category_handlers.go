package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/taskboard/taskboard-server/internal/service"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createCategory",
		Method:        http.MethodPost,
		Path:          "/api/v1/category",
		Summary:       "Create category",
		Description:   "Creates a new category; names are unique per user",
		Tags:          []string{"Categories"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/category",
		Summary:     "List categories",
		Description: "Returns all categories for the current user",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCategory",
		Method:      http.MethodPut,
		Path:        "/api/v1/category/{id}",
		Summary:     "Update category",
		Description: "Renames a category",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteCategory",
		Method:        http.MethodDelete,
		Path:          "/api/v1/category/{id}",
		Summary:       "Delete category",
		Description:   "Deletes a category; its tasks are detached, not deleted",
		Tags:          []string{"Categories"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteCategory)
}

// === DTOs ===

// CategoryRequest is the request body for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name" doc:"Category name"`
}

// CreateCategoryInput wraps the create category request for Huma.
type CreateCategoryInput struct {
	Authorization string `header:"Authorization"`
	Body          CategoryRequest
}

// CategoryOutput wraps a single category response for Huma.
type CategoryOutput struct {
	Body CategoryResponse
}

// ListCategoriesInput contains parameters for listing categories.
type ListCategoriesInput struct {
	Authorization string `header:"Authorization"`
}

// ListCategoriesResponse contains a list of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories" doc:"List of categories"`
}

// ListCategoriesOutput wraps the list categories response for Huma.
type ListCategoriesOutput struct {
	Body ListCategoriesResponse
}

// UpdateCategoryInput wraps the rename request for Huma.
type UpdateCategoryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Category ID"`
	Body          CategoryRequest
}

// DeleteCategoryInput contains parameters for deleting a category.
type DeleteCategoryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Category ID"`
}

// === Handlers ===

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	category, err := s.services.Category.Create(ctx, userID, service.CreateCategoryRequest{
		Name: input.Body.Name,
	})
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: mapCategory(category)}, nil
}

func (s *Server) handleListCategories(ctx context.Context, _ *ListCategoriesInput) (*ListCategoriesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.services.Category.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := ListCategoriesResponse{Categories: make([]CategoryResponse, 0, len(categories))}
	for _, category := range categories {
		resp.Categories = append(resp.Categories, mapCategory(category))
	}
	return &ListCategoriesOutput{Body: resp}, nil
}

func (s *Server) handleUpdateCategory(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	category, err := s.services.Category.Update(ctx, userID, input.ID, service.UpdateCategoryRequest{
		Name: input.Body.Name,
	})
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: mapCategory(category)}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *DeleteCategoryInput) (*DeleteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Category.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{}, nil
}
