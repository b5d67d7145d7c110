package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/mocks"
	"github.com/pageza/cucina/backend/internal/models"
	"github.com/pageza/cucina/backend/internal/store"
	"github.com/pageza/cucina/backend/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func catalogFixture() []*models.Recipe {
	return []*models.Recipe{
		{ID: uuid.New(), Name: "Apple Pie", Description: "Dessert classic", Category: models.CategoryDessert, Difficulty: models.DifficultyHard, Votes: 5, CreatedBy: "ana", Tags: []string{"baking"}},
		{ID: uuid.New(), Name: "Green Salad", Description: "Crisp and light", Category: models.CategoryLunch, Difficulty: models.DifficultyEasy, Votes: 1, CreatedBy: "ben", Tags: []string{"PIE-free"}},
		{ID: uuid.New(), Name: "Shepherd's pie", Description: "Hearty", Category: models.CategoryDinner, Difficulty: models.DifficultyMedium, Votes: 5, CreatedBy: "ana", Tags: []string{}},
		{ID: uuid.New(), Name: "Omelette", Description: "Quick eggs", Category: models.CategoryBreakfast, Difficulty: models.DifficultyEasy, Votes: 3, CreatedBy: "cy", Tags: []string{"eggs"}},
	}
}

func newMockCatalog(recipes []*models.Recipe) (*RecipeCatalog, *mocks.MockRecipeRepository) {
	repo := new(mocks.MockRecipeRepository)
	repo.On("FetchAllRecipes", mock.Anything).Return(recipes, nil)
	return NewRecipeCatalog(repo, nil), repo
}

func names(recipes []*models.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Name
	}
	return out
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	catalog, repo := newMockCatalog(catalogFixture())

	got, err := catalog.Search(ctx, "pie")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple Pie", "Green Salad", "Shepherd's pie"}, names(got))

	got, err = catalog.Search(ctx, "EGGS")
	require.NoError(t, err)
	assert.Equal(t, []string{"Omelette"}, names(got))

	got, err = catalog.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Len(t, got, 4)

	got, err = catalog.Search(ctx, "sushi")
	require.NoError(t, err)
	assert.Empty(t, got)

	repo.AssertNumberOfCalls(t, "FetchAllRecipes", 4)
}

func TestFilter(t *testing.T) {
	ctx := context.Background()
	catalog, _ := newMockCatalog(catalogFixture())

	easy := models.DifficultyEasy
	got, err := catalog.Filter(ctx, RecipeFilter{Difficulty: &easy})
	require.NoError(t, err)
	assert.Equal(t, []string{"Green Salad", "Omelette"}, names(got))

	lunch := models.CategoryLunch
	got, err = catalog.Filter(ctx, RecipeFilter{Difficulty: &easy, Category: &lunch})
	require.NoError(t, err)
	assert.Equal(t, []string{"Green Salad"}, names(got))

	dessert := models.CategoryDessert
	got, err = catalog.Filter(ctx, RecipeFilter{Difficulty: &easy, Category: &dessert})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = catalog.Filter(ctx, RecipeFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestTopVoted(t *testing.T) {
	ctx := context.Background()
	fixture := catalogFixture()
	catalog, _ := newMockCatalog(fixture)

	got, err := catalog.TopVoted(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple Pie", "Shepherd's pie"}, names(got))

	got, err = catalog.TopVoted(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple Pie", "Shepherd's pie", "Omelette", "Green Salad"}, names(got))
	assert.Equal(t, "Green Salad", fixture[1].Name, "fetched order must not be mutated")

	got, err = catalog.TopVoted(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestByCreator(t *testing.T) {
	catalog, _ := newMockCatalog(catalogFixture())

	got, err := catalog.ByCreator(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple Pie", "Shepherd's pie"}, names(got))

	got, err = catalog.ByCreator(context.Background(), "An")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCatalogPropagatesStoreErrors(t *testing.T) {
	repo := new(mocks.MockRecipeRepository)
	boom := errors.New("disk on fire")
	repo.On("FetchAllRecipes", mock.Anything).Return(nil, boom)

	_, err := NewRecipeCatalog(repo, nil).Search(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestGetMissingRecipe(t *testing.T) {
	repo := new(mocks.MockRecipeRepository)
	id := uuid.New()
	repo.On("FetchRecipe", mock.Anything, id).Return(nil, nil)

	_, err := NewRecipeCatalog(repo, nil).Get(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestAddValidates(t *testing.T) {
	repo := new(mocks.MockRecipeRepository)
	catalog := NewRecipeCatalog(repo, nil)
	ctx := context.Background()

	_, err := catalog.Add(ctx, &models.Recipe{Name: " ", Difficulty: models.DifficultyEasy, Category: models.CategoryLunch})
	assert.ErrorIs(t, err, models.ErrInvalidRecipe)

	_, err = catalog.Add(ctx, &models.Recipe{Name: "Soup", Difficulty: "Chef", Category: models.CategoryLunch})
	assert.ErrorIs(t, err, models.ErrInvalidRecipe)

	_, err = catalog.Add(ctx, &models.Recipe{Name: "Soup", Difficulty: models.DifficultyEasy, Category: models.CategoryLunch, Votes: -7})
	assert.ErrorIs(t, err, models.ErrInvalidRecipe)

	err = catalog.Update(ctx, &models.Recipe{Name: "Soup", Difficulty: models.DifficultyEasy, Category: models.CategoryLunch})
	assert.ErrorIs(t, err, models.ErrInvalidRecipe)

	repo.AssertNotCalled(t, "CreateRecipe", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateRecipe", mock.Anything, mock.Anything)
}

func TestCatalogOverStore(t *testing.T) {
	ctx := context.Background()
	catalog := NewRecipeCatalog(store.New(testdb.SQLite(t), nil), nil)

	added, err := catalog.Add(ctx, &models.Recipe{
		Name:       "Lemonade",
		Difficulty: models.DifficultyEasy,
		Category:   models.CategoryBeverage,
		CreatedBy:  "kid",
		Ingredients: []models.Ingredient{
			{Name: "Lemons", Amount: 4, Unit: ""},
			{Name: "Sugar", Amount: 0.5, Unit: "cup"},
		},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, added.ID)
	assert.Equal(t, []string{}, added.Tags)
	assert.Len(t, added.Ingredients, 2)

	added.Votes = 7
	require.NoError(t, catalog.Update(ctx, added))

	top, err := catalog.TopVoted(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 7, top[0].Votes)

	require.NoError(t, catalog.Delete(ctx, added.ID))
	_, err = catalog.Get(ctx, added.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
