package codec

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/model"
	"github.com/pageza/cucina/backend/internal/models"
)

// EncodeRecipe flattens r into a recipe row with positioned ingredient rows.
func (c *Codec) EncodeRecipe(r *models.Recipe) (*model.Recipe, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil recipe", models.ErrEncodeFailure)
	}
	if !r.Difficulty.Valid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", models.ErrEncodeFailure, r.Difficulty)
	}
	if !r.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", models.ErrEncodeFailure, r.Category)
	}
	if r.Votes < 0 {
		return nil, fmt.Errorf("%w: negative votes %d", models.ErrEncodeFailure, r.Votes)
	}

	row := &model.Recipe{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		Name:         r.Name,
		Description:  r.Description,
		Instructions: model.NewStringList(r.Instructions),
		CookingTime:  r.CookingTime,
		Servings:     r.Servings,
		Difficulty:   string(r.Difficulty),
		Category:     string(r.Category),
		CreatedBy:    r.CreatedBy,
		Votes:        r.Votes,
		Tags:         model.NewStringList(r.Tags),
		ImageURL:     r.ImageURL,
		Ingredients:  make([]model.Ingredient, 0, len(r.Ingredients)),
	}
	for i, ing := range r.Ingredients {
		row.Ingredients = append(row.Ingredients, model.Ingredient{
			RecipeID: r.ID,
			Position: i,
			Name:     ing.Name,
			Amount:   ing.Amount,
			Unit:     ing.Unit,
		})
	}
	return row, nil
}

// DecodeRecipe rebuilds a recipe from its row. It never fails.
func (c *Codec) DecodeRecipe(row *model.Recipe) *models.Recipe {
	r := &models.Recipe{
		ID:           row.ID,
		Name:         row.Name,
		Description:  row.Description,
		Instructions: c.stringList(EntityRecipe, row.ID, "instructions", row.Instructions),
		CookingTime:  row.CookingTime,
		Servings:     row.Servings,
		Difficulty:   c.difficulty(EntityRecipe, row.ID, row.Difficulty),
		Category:     c.category(EntityRecipe, row.ID, row.Category),
		CreatedBy:    row.CreatedBy,
		CreatedAt:    row.CreatedAt,
		Votes:        row.Votes,
		Tags:         c.stringList(EntityRecipe, row.ID, "tags", row.Tags),
		ImageURL:     row.ImageURL,
		Ingredients:  make([]models.Ingredient, 0, len(row.Ingredients)),
	}

	children := append([]model.Ingredient(nil), row.Ingredients...)
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Position < children[j].Position
	})
	for _, ing := range children {
		r.Ingredients = append(r.Ingredients, models.Ingredient{
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
		})
	}
	return r
}

func (c *Codec) stringList(entity string, id uuid.UUID, field string, list model.StringList) []string {
	if list.Corrupt {
		c.report(entity, id, field, list.Raw, "[]")
		return []string{}
	}
	out := make([]string, len(list.Items))
	copy(out, list.Items)
	return out
}
