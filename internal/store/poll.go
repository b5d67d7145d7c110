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

func orderedOptions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// CreatePoll inserts the poll and its options in one transaction. A
// duplicate recipe among the options fails the whole insert.
func (s *Store) CreatePoll(ctx context.Context, poll *models.Poll) (uuid.UUID, error) {
	if poll == nil {
		return uuid.Nil, fmt.Errorf("%w: nil poll", models.ErrEncodeFailure)
	}
	p := *poll
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	row, err := s.codec.EncodePoll(&p)
	if err != nil {
		return uuid.Nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
			return err
		}
		if len(row.Options) > 0 {
			if err := tx.Create(&row.Options).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, s.mutationError("create poll", codec.EntityPoll, p.ID, err)
	}

	s.log.Debug("poll created", "id", p.ID.String(), "options", len(row.Options))
	return p.ID, nil
}

// FetchAllPolls returns every poll, newest first.
func (s *Store) FetchAllPolls(ctx context.Context) ([]*models.Poll, error) {
	var rows []model.Poll
	err := s.db.WithContext(ctx).
		Preload("Options", orderedOptions).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch polls: %w", err)
	}

	polls := make([]*models.Poll, 0, len(rows))
	for i := range rows {
		polls = append(polls, s.codec.DecodePoll(&rows[i]))
	}
	return polls, nil
}

func (s *Store) FetchPoll(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	var rows []model.Poll
	err := s.db.WithContext(ctx).
		Preload("Options", orderedOptions).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch poll: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return s.codec.DecodePoll(&rows[0]), nil
}

// UpdatePoll replaces the poll's mutable fields and all of its options.
// ID, creation time and creator are kept from the stored row.
func (s *Store) UpdatePoll(ctx context.Context, poll *models.Poll) error {
	row, err := s.codec.EncodePoll(poll)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &model.Poll{}, row.ID)
		if err != nil {
			return err
		}
		if !found {
			return models.ErrNotFound
		}

		err = tx.Model(&model.Poll{}).Where("id = ?", row.ID).Updates(map[string]interface{}{
			"title":       row.Title,
			"description": row.Description,
			"ends_at":     row.EndsAt,
			"status":      row.Status,
		}).Error
		if err != nil {
			return err
		}

		if err := tx.Where("poll_id = ?", row.ID).Delete(&model.PollOption{}).Error; err != nil {
			return err
		}
		if len(row.Options) > 0 {
			if err := tx.Create(&row.Options).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return s.mutationError("update poll", codec.EntityPoll, row.ID, err)
	}
	return nil
}

// DeletePoll removes the poll and its options. A missing poll is a no-op.
func (s *Store) DeletePoll(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poll_id = ?", id).Delete(&model.PollOption{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Poll{}).Error
	})
	if err != nil {
		return s.mutationError("delete poll", codec.EntityPoll, id, err)
	}
	return nil
}
