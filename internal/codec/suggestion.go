package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/models"
)

// SuggestionAuthor is recorded as the creator of recipes proposed by the assistant.
const SuggestionAuthor = "AI"

// Number accepts both JSON numbers and numeric strings. Anything else reads as 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*n = Number(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			*n = Number(parsed)
			return nil
		}
	}

	*n = 0
	return nil
}

// count truncates n to a whole number. Anything outside [0, MaxInt32],
// NaN included, reads as 0.
func (n Number) count() int {
	f := float64(n)
	if math.IsNaN(f) || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

type SuggestedIngredient struct {
	Name   string `json:"name"`
	Amount Number `json:"amount"`
	Unit   string `json:"unit"`
}

// SuggestedRecipe is one entry of the assistant's {"recipes": [...]} reply.
type SuggestedRecipe struct {
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Ingredients  []SuggestedIngredient `json:"ingredients"`
	Instructions []string              `json:"instructions"`
	Category     string                `json:"category"`
	Difficulty   string                `json:"difficulty"`
	Servings     Number                `json:"servings"`
	CookingTime  Number                `json:"cookingTime"`
	Tags         []string              `json:"tags"`
}

// SuggestionList is the top-level reply document.
type SuggestionList struct {
	Recipes []SuggestedRecipe `json:"recipes"`
}

// ParseSuggestions decodes the assistant's reply. The content may be wrapped
// in a markdown code fence.
func ParseSuggestions(content string) (*SuggestionList, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var list SuggestionList
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &list); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	return &list, nil
}

// DecodeSuggestion turns a suggestion into a new recipe using the same
// fallbacks as stored rows.
func (c *Codec) DecodeSuggestion(s SuggestedRecipe) *models.Recipe {
	id := uuid.New()
	r := &models.Recipe{
		ID:           id,
		Name:         s.Name,
		Description:  s.Description,
		Ingredients:  make([]models.Ingredient, 0, len(s.Ingredients)),
		Instructions: append([]string{}, s.Instructions...),
		CookingTime:  s.CookingTime.count(),
		Servings:     s.Servings.count(),
		Difficulty:   c.difficulty(EntityRecipe, id, s.Difficulty),
		Category:     c.category(EntityRecipe, id, s.Category),
		CreatedBy:    SuggestionAuthor,
		Tags:         append([]string{}, s.Tags...),
	}
	for _, ing := range s.Ingredients {
		r.Ingredients = append(r.Ingredients, models.Ingredient{
			Name:   ing.Name,
			Amount: float64(ing.Amount),
			Unit:   ing.Unit,
		})
	}
	return r
}
