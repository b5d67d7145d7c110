// Package codec translates between the domain records in internal/models and
// the flat rows in internal/model. Encoding fails on values the rows cannot
// represent; decoding never fails and substitutes defaults for anything
// unreadable, reporting each substitution to an Observer.
package codec

import (
	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/models"
)

const (
	EntityRecipe = "recipe"
	EntityUser   = "user"
	EntityPoll   = "poll"
)

// Fallback describes a stored value that could not be read and the default
// used in its place.
type Fallback struct {
	Entity  string
	ID      uuid.UUID
	Field   string
	Raw     string
	Default string
}

// Observer receives every Fallback produced while decoding.
type Observer func(Fallback)

// Codec is safe for concurrent use as long as its Observer is.
type Codec struct {
	observe Observer
}

// New returns a Codec reporting to observe. A nil observer discards reports.
func New(observe Observer) *Codec {
	return &Codec{observe: observe}
}

func (c *Codec) report(entity string, id uuid.UUID, field, raw, def string) {
	if c == nil || c.observe == nil {
		return
	}
	c.observe(Fallback{Entity: entity, ID: id, Field: field, Raw: raw, Default: def})
}

// DecodeDifficulty maps a stored label to a Difficulty. Unknown labels
// yield Medium and false.
func DecodeDifficulty(label string) (models.Difficulty, bool) {
	d := models.Difficulty(label)
	if d.Valid() {
		return d, true
	}
	return models.DifficultyMedium, false
}

// DecodeCategory maps a stored label to a Category, defaulting to Dinner.
func DecodeCategory(label string) (models.Category, bool) {
	c := models.Category(label)
	if c.Valid() {
		return c, true
	}
	return models.CategoryDinner, false
}

// DecodePollStatus maps a stored label to a PollStatus, defaulting to active.
func DecodePollStatus(label string) (models.PollStatus, bool) {
	s := models.PollStatus(label)
	if s.Valid() {
		return s, true
	}
	return models.PollActive, false
}

// DecodeSpiceLevel maps a stored label to a SpiceLevel, defaulting to Medium.
func DecodeSpiceLevel(label string) (models.SpiceLevel, bool) {
	s := models.SpiceLevel(label)
	if s.Valid() {
		return s, true
	}
	return models.SpiceMedium, false
}

func (c *Codec) difficulty(entity string, id uuid.UUID, label string) models.Difficulty {
	d, ok := DecodeDifficulty(label)
	if !ok {
		c.report(entity, id, "difficulty", label, string(d))
	}
	return d
}

func (c *Codec) category(entity string, id uuid.UUID, label string) models.Category {
	cat, ok := DecodeCategory(label)
	if !ok {
		c.report(entity, id, "category", label, string(cat))
	}
	return cat
}
