package codec

import (
	"testing"

	"github.com/pageza/cucina/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestions(t *testing.T) {
	content := "```json\n" + `{"recipes":[
		{"name":"Pad Thai","description":"Noodles","ingredients":[{"name":"Rice noodles","amount":"200","unit":"g"}],
		 "instructions":["Soak","Fry"],"category":"Dinner","difficulty":"Medium","servings":2},
		{"name":"Smoothie","ingredients":[{"name":"Banana","amount":1.5,"unit":""}],
		 "category":"Drinks","difficulty":"trivial","servings":"one"}
	]}` + "\n```"

	list, err := ParseSuggestions(content)
	require.NoError(t, err)
	require.Len(t, list.Recipes, 2)
	assert.Equal(t, Number(200), list.Recipes[0].Ingredients[0].Amount)
	assert.Equal(t, Number(0), list.Recipes[1].Servings)

	rec := &recorder{}
	c := New(rec.observe)

	first := c.DecodeSuggestion(list.Recipes[0])
	assert.Equal(t, SuggestionAuthor, first.CreatedBy)
	assert.Equal(t, models.CategoryDinner, first.Category)
	assert.Equal(t, 2, first.Servings)
	assert.Equal(t, 200.0, first.Ingredients[0].Amount)
	assert.Empty(t, rec.fallbacks)

	second := c.DecodeSuggestion(list.Recipes[1])
	assert.Equal(t, models.CategoryDinner, second.Category)
	assert.Equal(t, models.DifficultyMedium, second.Difficulty)
	assert.NotNil(t, second.Instructions)
	assert.NotNil(t, second.Tags)
	assert.ElementsMatch(t, []string{"category", "difficulty"}, rec.fields())
	assert.NotEqual(t, first.ID, second.ID)
}

func TestParseSuggestionsInvalid(t *testing.T) {
	_, err := ParseSuggestions("Sorry, I cannot help with that.")
	assert.Error(t, err)
}

func TestDecodeSuggestionBoundsCounts(t *testing.T) {
	list, err := ParseSuggestions(`{"recipes":[
		{"name":"Stew","category":"Dinner","difficulty":"Easy","servings":1e300,"cookingTime":-15},
		{"name":"Toast","category":"Breakfast","difficulty":"Easy","servings":"2.9","cookingTime":"1e999"}
	]}`)
	require.NoError(t, err)
	require.Len(t, list.Recipes, 2)

	c := New(nil)
	stew := c.DecodeSuggestion(list.Recipes[0])
	assert.Equal(t, 0, stew.Servings)
	assert.Equal(t, 0, stew.CookingTime)

	toast := c.DecodeSuggestion(list.Recipes[1])
	assert.Equal(t, 2, toast.Servings)
	assert.Equal(t, 0, toast.CookingTime)
}
