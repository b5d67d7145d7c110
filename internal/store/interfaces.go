package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/models"
)

// RecipeRepository persists recipes with their ingredients.
type RecipeRepository interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) (uuid.UUID, error)
	FetchAllRecipes(ctx context.Context) ([]*models.Recipe, error)
	FetchRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *models.Recipe) error
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
}

// UserRepository persists users. Users are never deleted.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (uuid.UUID, error)
	FetchUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// PollRepository persists polls with their options.
type PollRepository interface {
	CreatePoll(ctx context.Context, poll *models.Poll) (uuid.UUID, error)
	FetchAllPolls(ctx context.Context) ([]*models.Poll, error)
	FetchPoll(ctx context.Context, id uuid.UUID) (*models.Poll, error)
	UpdatePoll(ctx context.Context, poll *models.Poll) error
	DeletePoll(ctx context.Context, id uuid.UUID) error
}

var (
	_ RecipeRepository = (*Store)(nil)
	_ UserRepository   = (*Store)(nil)
	_ PollRepository   = (*Store)(nil)
)
