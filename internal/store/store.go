// Package store is the only owner of durable state. Every mutation runs in a
// single transaction and either fully applies or leaves nothing behind.
package store

import (
	"errors"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/codec"
	"github.com/pageza/cucina/backend/internal/logger"
	"github.com/pageza/cucina/backend/internal/models"
	"gorm.io/gorm"
)

type Store struct {
	db    *gorm.DB
	codec *codec.Codec
	log   *logger.Logger
}

type Option func(*options)

type options struct {
	observer codec.Observer
}

// WithFallbackObserver forwards every decode fallback to observe, after it
// has been logged.
func WithFallbackObserver(observe codec.Observer) Option {
	return func(o *options) {
		o.observer = observe
	}
}

// New creates a Store over db. A nil log discards output.
func New(db *gorm.DB, log *logger.Logger, opts ...Option) *Store {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = logger.Nop()
	}

	s := &Store{db: db, log: log.With("component", "store")}
	s.codec = codec.New(func(f codec.Fallback) {
		s.log.Warn("decode fallback",
			"entity", f.Entity,
			"id", f.ID.String(),
			"field", f.Field,
			"raw", f.Raw,
			"default", f.Default,
		)
		if o.observer != nil {
			o.observer(f)
		}
	})
	return s
}

// Codec exposes the store's codec so callers decode with the same observer.
func (s *Store) Codec() *codec.Codec {
	return s.codec
}

// mutationError classifies an error returned from a transaction.
func (s *Store) mutationError(op, entity string, id uuid.UUID, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		s.log.Warn("update of missing record", "entity", entity, "id", id.String())
		return models.ErrNotFound
	}
	s.log.Error("write failed", "op", op, "id", id.String(), "error", err)
	return &models.WriteError{Op: op, Err: err}
}

// exists reports whether table has a row with id.
func exists(tx *gorm.DB, value interface{}, id uuid.UUID) (bool, error) {
	var count int64
	if err := tx.Model(value).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
