package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/codec"
	"github.com/pageza/cucina/backend/internal/model"
	"github.com/pageza/cucina/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func orderedIngredients(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// CreateRecipe inserts the recipe and its ingredients. A zero ID is replaced
// with a fresh one; the stored ID is returned. The argument is not modified.
func (s *Store) CreateRecipe(ctx context.Context, recipe *models.Recipe) (uuid.UUID, error) {
	if recipe == nil {
		return uuid.Nil, fmt.Errorf("%w: nil recipe", models.ErrEncodeFailure)
	}
	r := *recipe
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	row, err := s.codec.EncodeRecipe(&r)
	if err != nil {
		return uuid.Nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
			return err
		}
		if len(row.Ingredients) > 0 {
			if err := tx.Create(&row.Ingredients).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, s.mutationError("create recipe", codec.EntityRecipe, r.ID, err)
	}

	s.log.Debug("recipe created", "id", r.ID.String(), "ingredients", len(row.Ingredients))
	return r.ID, nil
}

// FetchAllRecipes returns every recipe, newest first.
func (s *Store) FetchAllRecipes(ctx context.Context) ([]*models.Recipe, error) {
	var rows []model.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", orderedIngredients).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipes: %w", err)
	}

	recipes := make([]*models.Recipe, 0, len(rows))
	for i := range rows {
		recipes = append(recipes, s.codec.DecodeRecipe(&rows[i]))
	}
	return recipes, nil
}

// FetchRecipe returns the recipe with id, or nil when there is none.
func (s *Store) FetchRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var rows []model.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", orderedIngredients).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipe: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return s.codec.DecodeRecipe(&rows[0]), nil
}

// UpdateRecipe replaces every field of the stored recipe except its ID,
// creation time and creator, and replaces its ingredients wholesale.
func (s *Store) UpdateRecipe(ctx context.Context, recipe *models.Recipe) error {
	row, err := s.codec.EncodeRecipe(recipe)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &model.Recipe{}, row.ID)
		if err != nil {
			return err
		}
		if !found {
			return models.ErrNotFound
		}

		err = tx.Model(&model.Recipe{}).Where("id = ?", row.ID).Updates(map[string]interface{}{
			"name":         row.Name,
			"description":  row.Description,
			"instructions": row.Instructions,
			"cooking_time": row.CookingTime,
			"servings":     row.Servings,
			"difficulty":   row.Difficulty,
			"category":     row.Category,
			"votes":        row.Votes,
			"tags":         row.Tags,
			"image_url":    row.ImageURL,
		}).Error
		if err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", row.ID).Delete(&model.Ingredient{}).Error; err != nil {
			return err
		}
		if len(row.Ingredients) > 0 {
			if err := tx.Create(&row.Ingredients).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return s.mutationError("update recipe", codec.EntityRecipe, row.ID, err)
	}
	return nil
}

// DeleteRecipe removes the recipe and its ingredients. Deleting a missing
// recipe is not an error.
func (s *Store) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&model.Ingredient{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Recipe{}).Error
	})
	if err != nil {
		return s.mutationError("delete recipe", codec.EntityRecipe, id, err)
	}
	return nil
}
