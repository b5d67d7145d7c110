package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is the flat row for a recipe. Ingredients live in their own table
// and are removed with the recipe.
type Recipe struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	CreatedAt    time.Time `gorm:"not null;index"`
	UpdatedAt    time.Time
	Name         string       `gorm:"size:255;not null"`
	Description  string       `gorm:"type:text"`
	Instructions StringList   `gorm:"type:text;not null"`
	CookingTime  int          `gorm:"not null"`
	Servings     int          `gorm:"not null"`
	Difficulty   string       `gorm:"size:20;not null"`
	Category     string       `gorm:"size:20;not null"`
	CreatedBy    string       `gorm:"size:255;not null;index"`
	Votes        int          `gorm:"not null;check:votes >= 0"`
	Tags         StringList   `gorm:"type:text;not null"`
	ImageURL     *string      `gorm:"size:1024"`
	Ingredients  []Ingredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Ingredient is one ingredient line. Position keeps the recipe's order.
type Ingredient struct {
	ID       uint      `gorm:"primaryKey"`
	RecipeID uuid.UUID `gorm:"type:varchar(36);not null;index"`
	Position int       `gorm:"not null"`
	Name     string    `gorm:"size:255;not null"`
	Amount   float64   `gorm:"not null"`
	Unit     string    `gorm:"size:50"`
}
