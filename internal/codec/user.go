package codec

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/model"
	"github.com/pageza/cucina/backend/internal/models"
)

// storedPreferences is the blob layout. Labels stay strings so unknown values
// can be dropped one by one instead of failing the whole document.
type storedPreferences struct {
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	CuisinePreferences  []string `json:"cuisinePreferences"`
	SpiceLevel          string   `json:"spiceLevel"`
	HealthGoals         []string `json:"healthGoals"`
}

func (c *Codec) EncodeUser(u *models.User) (*model.User, error) {
	if u == nil {
		return nil, fmt.Errorf("%w: nil user", models.ErrEncodeFailure)
	}
	prefs, err := EncodePreferences(u.Preferences)
	if err != nil {
		return nil, err
	}
	return &model.User{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		ImageURL:        u.ImageURL,
		FamilyID:        u.FamilyID,
		FavoriteRecipes: model.NewStringList(idStrings(u.FavoriteRecipes)),
		CreatedRecipes:  model.NewStringList(idStrings(u.CreatedRecipes)),
		Preferences:     prefs,
	}, nil
}

// EncodePreferences renders p as the stored JSON document.
func EncodePreferences(p models.Preferences) (model.JSONBlob, error) {
	stored := storedPreferences{
		DietaryRestrictions: make([]string, 0, len(p.DietaryRestrictions)),
		CuisinePreferences:  make([]string, 0, len(p.CuisinePreferences)),
		SpiceLevel:          string(p.SpiceLevel),
		HealthGoals:         make([]string, 0, len(p.HealthGoals)),
	}
	for _, d := range p.DietaryRestrictions {
		if !d.Valid() {
			return nil, fmt.Errorf("%w: unknown dietary restriction %q", models.ErrEncodeFailure, d)
		}
		stored.DietaryRestrictions = append(stored.DietaryRestrictions, string(d))
	}
	stored.CuisinePreferences = append(stored.CuisinePreferences, p.CuisinePreferences...)
	if !p.SpiceLevel.Valid() {
		return nil, fmt.Errorf("%w: unknown spice level %q", models.ErrEncodeFailure, p.SpiceLevel)
	}
	for _, g := range p.HealthGoals {
		if !g.Valid() {
			return nil, fmt.Errorf("%w: unknown health goal %q", models.ErrEncodeFailure, g)
		}
		stored.HealthGoals = append(stored.HealthGoals, string(g))
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEncodeFailure, err)
	}
	return model.JSONBlob(data), nil
}

func (c *Codec) DecodeUser(row *model.User) *models.User {
	return &models.User{
		ID:              row.ID,
		Name:            row.Name,
		Email:           row.Email,
		ImageURL:        row.ImageURL,
		FamilyID:        row.FamilyID,
		FavoriteRecipes: c.ids(row.ID, "favorite_recipes", row.FavoriteRecipes),
		CreatedRecipes:  c.ids(row.ID, "created_recipes", row.CreatedRecipes),
		Preferences:     c.DecodePreferences(row.ID, row.Preferences),
	}
}

// DecodePreferences reads the stored blob for user id. A missing or corrupt
// document yields DefaultPreferences; unknown labels inside a readable
// document are dropped, and an unknown spice level becomes Medium.
func (c *Codec) DecodePreferences(id uuid.UUID, blob model.JSONBlob) models.Preferences {
	defaults := models.DefaultPreferences()
	if len(blob) == 0 {
		c.report(EntityUser, id, "preferences", "", "default")
		return defaults
	}
	var stored storedPreferences
	if err := json.Unmarshal(blob, &stored); err != nil {
		c.report(EntityUser, id, "preferences", string(blob), "default")
		return defaults
	}

	prefs := defaults
	for _, label := range stored.DietaryRestrictions {
		d := models.DietaryRestriction(label)
		if !d.Valid() {
			c.report(EntityUser, id, "preferences.dietary_restrictions", label, "dropped")
			continue
		}
		prefs.DietaryRestrictions = append(prefs.DietaryRestrictions, d)
	}
	prefs.CuisinePreferences = append(prefs.CuisinePreferences, stored.CuisinePreferences...)
	spice, ok := DecodeSpiceLevel(stored.SpiceLevel)
	if !ok {
		c.report(EntityUser, id, "preferences.spice_level", stored.SpiceLevel, string(spice))
	}
	prefs.SpiceLevel = spice
	for _, label := range stored.HealthGoals {
		g := models.HealthGoal(label)
		if !g.Valid() {
			c.report(EntityUser, id, "preferences.health_goals", label, "dropped")
			continue
		}
		prefs.HealthGoals = append(prefs.HealthGoals, g)
	}
	return prefs
}

func (c *Codec) ids(owner uuid.UUID, field string, list model.StringList) []uuid.UUID {
	raw := c.stringList(EntityUser, owner, field, list)
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			c.report(EntityUser, owner, field, s, "dropped")
			continue
		}
		out = append(out, id)
	}
	return out
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
