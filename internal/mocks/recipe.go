package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockRecipeRepository is a mock implementation of store.RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

// CreateRecipe mocks the CreateRecipe method
func (m *MockRecipeRepository) CreateRecipe(ctx context.Context, recipe *models.Recipe) (uuid.UUID, error) {
	args := m.Called(ctx, recipe)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// FetchAllRecipes mocks the FetchAllRecipes method
func (m *MockRecipeRepository) FetchAllRecipes(ctx context.Context) ([]*models.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

// FetchRecipe mocks the FetchRecipe method
func (m *MockRecipeRepository) FetchRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

// UpdateRecipe mocks the UpdateRecipe method
func (m *MockRecipeRepository) UpdateRecipe(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

// DeleteRecipe mocks the DeleteRecipe method
func (m *MockRecipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
