package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/logger"
	"github.com/pageza/cucina/backend/internal/models"
	"github.com/pageza/cucina/backend/internal/store"
)

// RecipeFilter narrows a recipe listing. Nil fields are unconstrained.
type RecipeFilter struct {
	Category   *models.Category
	Difficulty *models.Difficulty
}

// RecipeCatalog answers queries over the full recipe set. Every query
// re-reads the store; nothing is cached between calls.
type RecipeCatalog struct {
	recipes store.RecipeRepository
	log     *logger.Logger
}

// NewRecipeCatalog creates a new RecipeCatalog instance
func NewRecipeCatalog(recipes store.RecipeRepository, log *logger.Logger) *RecipeCatalog {
	if log == nil {
		log = logger.Nop()
	}
	return &RecipeCatalog{recipes: recipes, log: log.With("component", "catalog")}
}

// All returns every recipe, newest first.
func (c *RecipeCatalog) All(ctx context.Context) ([]*models.Recipe, error) {
	recipes, err := c.recipes.FetchAllRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Search matches query case-insensitively against name, description and
// tags. A blank query returns everything.
func (c *RecipeCatalog) Search(ctx context.Context, query string) ([]*models.Recipe, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return all, nil
	}

	out := make([]*models.Recipe, 0, len(all))
	for _, r := range all {
		if r.Matches(query) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *RecipeCatalog) Filter(ctx context.Context, f RecipeFilter) ([]*models.Recipe, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	return applyFilter(all, f), nil
}

func applyFilter(recipes []*models.Recipe, f RecipeFilter) []*models.Recipe {
	out := make([]*models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if f.Category != nil && r.Category != *f.Category {
			continue
		}
		if f.Difficulty != nil && r.Difficulty != *f.Difficulty {
			continue
		}
		out = append(out, r)
	}
	return out
}

// TopVoted returns up to limit recipes by descending votes. Ties keep the
// store's order.
func (c *RecipeCatalog) TopVoted(ctx context.Context, limit int) ([]*models.Recipe, error) {
	if limit <= 0 {
		return []*models.Recipe{}, nil
	}
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	return topVoted(all, limit), nil
}

func topVoted(recipes []*models.Recipe, limit int) []*models.Recipe {
	sorted := append([]*models.Recipe(nil), recipes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Votes > sorted[j].Votes
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// ByCreator returns the recipes whose creator is exactly userID.
func (c *RecipeCatalog) ByCreator(ctx context.Context, userID string) ([]*models.Recipe, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Recipe, 0)
	for _, r := range all {
		if r.CreatedBy == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Get returns the recipe with id or models.ErrNotFound.
func (c *RecipeCatalog) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	r, err := c.recipes.FetchRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, models.ErrNotFound
	}
	return r, nil
}

// Add validates and stores a new recipe, returning it as stored.
func (c *RecipeCatalog) Add(ctx context.Context, r *models.Recipe) (*models.Recipe, error) {
	if err := validateRecipe(r); err != nil {
		return nil, err
	}
	normalizeRecipe(r)

	id, err := c.recipes.CreateRecipe(ctx, r)
	if err != nil {
		return nil, err
	}
	c.log.Info("recipe added", "id", id.String(), "created_by", r.CreatedBy)
	return c.Get(ctx, id)
}

// Update replaces the stored recipe with r.
func (c *RecipeCatalog) Update(ctx context.Context, r *models.Recipe) error {
	if r.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", models.ErrInvalidRecipe)
	}
	if err := validateRecipe(r); err != nil {
		return err
	}
	normalizeRecipe(r)
	return c.recipes.UpdateRecipe(ctx, r)
}

func (c *RecipeCatalog) Delete(ctx context.Context, id uuid.UUID) error {
	return c.recipes.DeleteRecipe(ctx, id)
}

func validateRecipe(r *models.Recipe) error {
	if r == nil {
		return fmt.Errorf("%w: missing recipe", models.ErrInvalidRecipe)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", models.ErrInvalidRecipe)
	}
	if r.CookingTime < 0 || r.Servings < 0 {
		return fmt.Errorf("%w: cooking time and servings must not be negative", models.ErrInvalidRecipe)
	}
	if r.Votes < 0 {
		return fmt.Errorf("%w: votes must not be negative", models.ErrInvalidRecipe)
	}
	if !r.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", models.ErrInvalidRecipe, r.Difficulty)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", models.ErrInvalidRecipe, r.Category)
	}
	return nil
}

func normalizeRecipe(r *models.Recipe) {
	if r.Ingredients == nil {
		r.Ingredients = []models.Ingredient{}
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
}
