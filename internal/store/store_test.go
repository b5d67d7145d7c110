package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/codec"
	"github.com/pageza/cucina/backend/internal/database"
	"github.com/pageza/cucina/backend/internal/model"
	"github.com/pageza/cucina/backend/internal/models"
	"github.com/pageza/cucina/backend/internal/store"
	"github.com/pageza/cucina/backend/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fallbackLog struct {
	mu   sync.Mutex
	seen []codec.Fallback
}

func (l *fallbackLog) observe(f codec.Fallback) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen = append(l.seen, f)
}

func (l *fallbackLog) fields() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.seen))
	for _, f := range l.seen {
		out = append(out, f.Field)
	}
	return out
}

func setupStore(t *testing.T) (*store.Store, *gorm.DB, *fallbackLog) {
	t.Helper()
	db := testdb.SQLite(t)
	fallbacks := &fallbackLog{}
	return store.New(db, nil, store.WithFallbackObserver(fallbacks.observe)), db, fallbacks
}

func newRecipe(name string, ingredients ...string) *models.Recipe {
	r := &models.Recipe{
		Name:         name,
		Description:  name + " description",
		Ingredients:  []models.Ingredient{},
		Instructions: []string{"Prep", "Cook"},
		CookingTime:  30,
		Servings:     4,
		Difficulty:   models.DifficultyEasy,
		Category:     models.CategoryDinner,
		CreatedBy:    "user-1",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
		Tags:         []string{"weeknight"},
	}
	for i, ing := range ingredients {
		r.Ingredients = append(r.Ingredients, models.Ingredient{Name: ing, Amount: float64(i + 1), Unit: "cup"})
	}
	return r
}

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(value).Count(&n).Error)
	return n
}

// sameRecipe compares everything but the clock value, which is checked to
// the microsecond.
func sameRecipe(t *testing.T, want, got *models.Recipe) {
	t.Helper()
	require.NotNil(t, got)
	assert.WithinDuration(t, want.CreatedAt, got.CreatedAt, time.Microsecond)
	w, g := *want, *got
	w.CreatedAt, g.CreatedAt = time.Time{}, time.Time{}
	assert.Equal(t, w, g)
}

func TestRecipeLifecycle(t *testing.T) {
	ctx := context.Background()
	s, db, fallbacks := setupStore(t)

	image := "https://img.example.com/soup.png"
	original := newRecipe("Tomato Soup", "Tomatoes", "Onion", "Stock")
	original.ImageURL = &image

	id, err := s.CreateRecipe(ctx, original)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, uuid.Nil, original.ID, "argument must not be modified")

	fetched, err := s.FetchRecipe(ctx, id)
	require.NoError(t, err)
	want := *original
	want.ID = id
	sameRecipe(t, &want, fetched)
	assert.Empty(t, fallbacks.fields())

	// Replace with a single ingredient; the old three must be gone.
	fetched.Name = "Roasted Tomato Soup"
	fetched.Ingredients = []models.Ingredient{{Name: "Roasted tomatoes", Amount: 1, Unit: "kg"}}
	fetched.Votes = 3
	fetched.ImageURL = nil
	require.NoError(t, s.UpdateRecipe(ctx, fetched))

	updated, err := s.FetchRecipe(ctx, id)
	require.NoError(t, err)
	sameRecipe(t, fetched, updated)
	assert.Equal(t, int64(1), countRows(t, db, &model.Ingredient{}))

	require.NoError(t, s.DeleteRecipe(ctx, id))
	gone, err := s.FetchRecipe(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Equal(t, int64(0), countRows(t, db, &model.Ingredient{}))
	assert.Equal(t, int64(0), countRows(t, db, &model.Recipe{}))
}

func TestUpdateRecipeKeepsImmutableFields(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setupStore(t)

	original := newRecipe("Pancakes", "Flour", "Milk")
	id, err := s.CreateRecipe(ctx, original)
	require.NoError(t, err)

	changed := newRecipe("Crepes", "Flour")
	changed.ID = id
	changed.CreatedBy = "someone-else"
	changed.CreatedAt = original.CreatedAt.Add(-48 * time.Hour)
	require.NoError(t, s.UpdateRecipe(ctx, changed))

	got, err := s.FetchRecipe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Crepes", got.Name)
	assert.Equal(t, "user-1", got.CreatedBy)
	assert.WithinDuration(t, original.CreatedAt, got.CreatedAt, time.Microsecond)
}

func TestUpdateMissingRecipe(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setupStore(t)

	r := newRecipe("Ghost", "Air")
	r.ID = uuid.New()
	err := s.UpdateRecipe(ctx, r)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.False(t, errors.Is(err, models.ErrWriteFailure))
	assert.Equal(t, int64(0), countRows(t, db, &model.Recipe{}))
	assert.Equal(t, int64(0), countRows(t, db, &model.Ingredient{}))
}

func TestDeleteMissingRecipeIsNoop(t *testing.T) {
	s, _, _ := setupStore(t)
	assert.NoError(t, s.DeleteRecipe(context.Background(), uuid.New()))
}

func TestFetchAllRecipesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setupStore(t)

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i, name := range []string{"First", "Second", "Third"} {
		r := newRecipe(name, "Salt")
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		id, err := s.CreateRecipe(ctx, r)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	all, err := s.FetchAllRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{ids[2], ids[1], ids[0]}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})
	for _, r := range all {
		assert.Len(t, r.Ingredients, 1)
	}
}

func TestCreateRecipeRejectsInvalidEnum(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setupStore(t)

	r := newRecipe("Odd", "Thing")
	r.Category = "Second Breakfast"
	_, err := s.CreateRecipe(ctx, r)
	assert.ErrorIs(t, err, models.ErrEncodeFailure)
	assert.Equal(t, int64(0), countRows(t, db, &model.Recipe{}))
}

func TestCreateDuplicateIDFails(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setupStore(t)

	r := newRecipe("Once", "Egg")
	r.ID = uuid.New()
	_, err := s.CreateRecipe(ctx, r)
	require.NoError(t, err)

	_, err = s.CreateRecipe(ctx, r)
	assert.ErrorIs(t, err, models.ErrWriteFailure)
}

func TestWriteFailureOnClosedDatabase(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setupStore(t)
	require.NoError(t, database.Close(db))

	_, err := s.CreateRecipe(ctx, newRecipe("Late", "Tea"))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrWriteFailure)

	var writeErr *models.WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "create recipe", writeErr.Op)
	assert.Error(t, writeErr.Unwrap())
}

func TestDecodeFallbackOnStoredValues(t *testing.T) {
	ctx := context.Background()
	s, db, fallbacks := setupStore(t)

	id, err := s.CreateRecipe(ctx, newRecipe("Tampered", "Flour"))
	require.NoError(t, err)

	require.NoError(t, db.Exec(
		"UPDATE recipes SET difficulty = ?, category = ?, tags = ? WHERE id = ?",
		"Unknown", "Elevenses", "{{broken", id.String(),
	).Error)

	got, err := s.FetchRecipe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyMedium, got.Difficulty)
	assert.Equal(t, models.CategoryDinner, got.Category)
	assert.Equal(t, []string{}, got.Tags)
	assert.Equal(t, []string{"Prep", "Cook"}, got.Instructions)
	assert.ElementsMatch(t, []string{"difficulty", "category", "tags"}, fallbacks.fields())
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	s, db, fallbacks := setupStore(t)

	family := uuid.New()
	fav := uuid.New()
	user := &models.User{
		Name:            "Grace",
		Email:           "grace@example.com",
		FamilyID:        &family,
		FavoriteRecipes: []uuid.UUID{fav},
		CreatedRecipes:  []uuid.UUID{},
		Preferences: models.Preferences{
			DietaryRestrictions: []models.DietaryRestriction{models.DietKosher},
			CuisinePreferences:  []string{"Mexican"},
			SpiceLevel:          models.SpiceSpicy,
			HealthGoals:         []models.HealthGoal{},
		},
	}
	id, err := s.CreateUser(ctx, user)
	require.NoError(t, err)

	got, err := s.FetchUser(ctx, id)
	require.NoError(t, err)
	want := *user
	want.ID = id
	assert.Equal(t, &want, got)

	got.Preferences.SpiceLevel = models.SpiceMild
	got.FamilyID = nil
	got.CreatedRecipes = []uuid.UUID{uuid.New()}
	require.NoError(t, s.UpdateUser(ctx, got))

	again, err := s.FetchUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Empty(t, fallbacks.fields())

	// A corrupt preferences blob reads back as defaults.
	require.NoError(t, db.Exec("UPDATE users SET preferences = ? WHERE id = ?", "oops", id.String()).Error)
	corrupted, err := s.FetchUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferences(), corrupted.Preferences)
	assert.Equal(t, []string{"preferences"}, fallbacks.fields())

	missing, err := s.FetchUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	ghost := *got
	ghost.ID = uuid.New()
	assert.ErrorIs(t, s.UpdateUser(ctx, &ghost), models.ErrNotFound)
}

func newPoll(recipeIDs ...uuid.UUID) *models.Poll {
	now := time.Now().UTC().Truncate(time.Microsecond)
	p := &models.Poll{
		Title:       "Sunday lunch",
		Description: "Vote by Saturday",
		Options:     []models.PollOption{},
		CreatedBy:   "parent",
		CreatedAt:   now,
		EndsAt:      now.Add(24 * time.Hour),
		Status:      models.PollActive,
	}
	for _, id := range recipeIDs {
		p.Options = append(p.Options, models.PollOption{RecipeID: id})
	}
	return p
}

func TestPollLifecycle(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setupStore(t)

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	id, err := s.CreatePoll(ctx, newPoll(a, b, c))
	require.NoError(t, err)

	p, err := s.FetchPoll(ctx, id)
	require.NoError(t, err)
	require.Len(t, p.Options, 3)
	assert.Equal(t, []uuid.UUID{a, b, c}, []uuid.UUID{p.Options[0].RecipeID, p.Options[1].RecipeID, p.Options[2].RecipeID})

	p.Options[1].Votes = 2
	p.Options = p.Options[:2]
	p.Status = models.PollEnded
	p.CreatedBy = "intruder"
	require.NoError(t, s.UpdatePoll(ctx, p))

	updated, err := s.FetchPoll(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.PollEnded, updated.Status)
	assert.Equal(t, "parent", updated.CreatedBy)
	assert.Equal(t, 2, updated.TotalVotes())
	assert.Equal(t, int64(2), countRows(t, db, &model.PollOption{}))

	all, err := s.FetchAllPolls(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.DeletePoll(ctx, id))
	assert.Equal(t, int64(0), countRows(t, db, &model.PollOption{}))
	assert.NoError(t, s.DeletePoll(ctx, id))
}

func TestCreatePollWithDuplicateOptionsRollsBack(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setupStore(t)

	dup := uuid.New()
	_, err := s.CreatePoll(ctx, newPoll(dup, uuid.New(), dup))
	assert.ErrorIs(t, err, models.ErrWriteFailure)
	assert.Equal(t, int64(0), countRows(t, db, &model.Poll{}))
	assert.Equal(t, int64(0), countRows(t, db, &model.PollOption{}))
}

func TestUpdatePollRollsBackOnOptionFailure(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setupStore(t)

	a := uuid.New()
	id, err := s.CreatePoll(ctx, newPoll(a, uuid.New()))
	require.NoError(t, err)

	p, err := s.FetchPoll(ctx, id)
	require.NoError(t, err)
	p.Title = "Renamed"
	p.Options = append(p.Options, models.PollOption{RecipeID: a})
	assert.ErrorIs(t, s.UpdatePoll(ctx, p), models.ErrWriteFailure)

	unchanged, err := s.FetchPoll(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Sunday lunch", unchanged.Title)
	assert.Len(t, unchanged.Options, 2)
}

func TestStoreOnPostgres(t *testing.T) {
	ctx := context.Background()
	db := testdb.Postgres(t)
	s := store.New(db, nil)

	id, err := s.CreateRecipe(ctx, newRecipe("Goulash", "Beef", "Paprika"))
	require.NoError(t, err)
	got, err := s.FetchRecipe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Paprika", got.Ingredients[1].Name)

	dup := uuid.New()
	_, err = s.CreatePoll(ctx, newPoll(dup, dup))
	assert.ErrorIs(t, err, models.ErrWriteFailure)
	assert.Equal(t, int64(0), countRows(t, db, &model.Poll{}))
}
