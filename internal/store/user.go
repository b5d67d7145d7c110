package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/codec"
	"github.com/pageza/cucina/backend/internal/model"
	"github.com/pageza/cucina/backend/internal/models"
	"gorm.io/gorm"
)

// CreateUser inserts user, assigning an ID when it has none.
func (s *Store) CreateUser(ctx context.Context, user *models.User) (uuid.UUID, error) {
	if user == nil {
		return uuid.Nil, fmt.Errorf("%w: nil user", models.ErrEncodeFailure)
	}
	u := *user
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	row, err := s.codec.EncodeUser(&u)
	if err != nil {
		return uuid.Nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(row).Error
	})
	if err != nil {
		return uuid.Nil, s.mutationError("create user", codec.EntityUser, u.ID, err)
	}
	return u.ID, nil
}

// FetchUser returns the user with id, or nil when there is none.
func (s *Store) FetchUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var rows []model.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return s.codec.DecodeUser(&rows[0]), nil
}

// UpdateUser replaces every stored field except the ID and creation time.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	row, err := s.codec.EncodeUser(user)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &model.User{}, row.ID)
		if err != nil {
			return err
		}
		if !found {
			return models.ErrNotFound
		}
		return tx.Model(&model.User{}).Where("id = ?", row.ID).Updates(map[string]interface{}{
			"name":             row.Name,
			"email":            row.Email,
			"image_url":        row.ImageURL,
			"family_id":        row.FamilyID,
			"favorite_recipes": row.FavoriteRecipes,
			"created_recipes":  row.CreatedRecipes,
			"preferences":      row.Preferences,
		}).Error
	})
	if err != nil {
		return s.mutationError("update user", codec.EntityUser, row.ID, err)
	}
	return nil
}
