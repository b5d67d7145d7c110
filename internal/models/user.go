package models

import (
	"github.com/google/uuid"
)

// DietaryRestriction is a dietary constraint a user cooks around.
type DietaryRestriction string

const (
	DietVegetarian DietaryRestriction = "Vegetarian"
	DietVegan      DietaryRestriction = "Vegan"
	DietGlutenFree DietaryRestriction = "Gluten Free"
	DietDairyFree  DietaryRestriction = "Dairy Free"
	DietNutFree    DietaryRestriction = "Nut Free"
	DietKosher     DietaryRestriction = "Kosher"
	DietHalal      DietaryRestriction = "Halal"
)

var DietaryRestrictions = []DietaryRestriction{
	DietVegetarian,
	DietVegan,
	DietGlutenFree,
	DietDairyFree,
	DietNutFree,
	DietKosher,
	DietHalal,
}

func (d DietaryRestriction) Valid() bool {
	for _, known := range DietaryRestrictions {
		if d == known {
			return true
		}
	}
	return false
}

// SpiceLevel is how much heat a user tolerates.
type SpiceLevel string

const (
	SpiceMild       SpiceLevel = "Mild"
	SpiceMedium     SpiceLevel = "Medium"
	SpiceSpicy      SpiceLevel = "Spicy"
	SpiceExtraSpicy SpiceLevel = "Extra Spicy"
)

var SpiceLevels = []SpiceLevel{SpiceMild, SpiceMedium, SpiceSpicy, SpiceExtraSpicy}

func (s SpiceLevel) Valid() bool {
	for _, known := range SpiceLevels {
		if s == known {
			return true
		}
	}
	return false
}

type HealthGoal string

const (
	GoalWeightLoss       HealthGoal = "Weight Loss"
	GoalMuscleGain       HealthGoal = "Muscle Gain"
	GoalHeartHealth      HealthGoal = "Heart Health"
	GoalDiabetesFriendly HealthGoal = "Diabetes Friendly"
	GoalGeneralWellness  HealthGoal = "General Wellness"
	GoalLowCarb          HealthGoal = "Low Carb"
	GoalHighProtein      HealthGoal = "High Protein"
)

var HealthGoals = []HealthGoal{
	GoalWeightLoss,
	GoalMuscleGain,
	GoalHeartHealth,
	GoalDiabetesFriendly,
	GoalGeneralWellness,
	GoalLowCarb,
	GoalHighProtein,
}

func (g HealthGoal) Valid() bool {
	for _, known := range HealthGoals {
		if g == known {
			return true
		}
	}
	return false
}

// Preferences is a value object stored with the user as a single blob.
type Preferences struct {
	DietaryRestrictions []DietaryRestriction `json:"dietary_restrictions"`
	CuisinePreferences  []string             `json:"cuisine_preferences"`
	SpiceLevel          SpiceLevel           `json:"spice_level"`
	HealthGoals         []HealthGoal         `json:"health_goals"`
}

// DefaultPreferences returns empty preferences with a medium spice level.
func DefaultPreferences() Preferences {
	return Preferences{
		DietaryRestrictions: []DietaryRestriction{},
		CuisinePreferences:  []string{},
		SpiceLevel:          SpiceMedium,
		HealthGoals:         []HealthGoal{},
	}
}

// IsZero reports whether no preference has been set at all.
func (p Preferences) IsZero() bool {
	return len(p.DietaryRestrictions) == 0 && len(p.CuisinePreferences) == 0 &&
		p.SpiceLevel == "" && len(p.HealthGoals) == 0
}

type User struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	ImageURL        *string     `json:"image_url,omitempty"`
	FamilyID        *uuid.UUID  `json:"family_id,omitempty"`
	FavoriteRecipes []uuid.UUID `json:"favorite_recipes"`
	CreatedRecipes  []uuid.UUID `json:"created_recipes"`
	Preferences     Preferences `json:"preferences"`
}
