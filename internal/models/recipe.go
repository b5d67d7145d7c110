package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty is how hard a recipe is to prepare. The value is its stored label.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties lists every difficulty in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	for _, known := range Difficulties {
		if d == known {
			return true
		}
	}
	return false
}

// Category is the meal slot a recipe belongs to.
type Category string

const (
	CategoryBreakfast Category = "Breakfast"
	CategoryLunch     Category = "Lunch"
	CategoryDinner    Category = "Dinner"
	CategoryDessert   Category = "Dessert"
	CategorySnack     Category = "Snack"
	CategoryAppetizer Category = "Appetizer"
	CategoryBeverage  Category = "Beverage"
)

var Categories = []Category{
	CategoryBreakfast,
	CategoryLunch,
	CategoryDinner,
	CategoryDessert,
	CategorySnack,
	CategoryAppetizer,
	CategoryBeverage,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Ingredient is a single line of a recipe's ingredient list.
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Recipe is the aggregate root for a recipe and its ingredients.
type Recipe struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	CookingTime  int          `json:"cooking_time"`
	Servings     int          `json:"servings"`
	Difficulty   Difficulty   `json:"difficulty"`
	Category     Category     `json:"category"`
	CreatedBy    string       `json:"created_by"`
	CreatedAt    time.Time    `json:"created_at"`
	Votes        int          `json:"votes"`
	Tags         []string     `json:"tags"`
	ImageURL     *string      `json:"image_url,omitempty"`
}

// Matches reports whether the lowercased query is a substring of the
// recipe's name, description or any tag, ignoring case.
func (r *Recipe) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.Description), q) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
