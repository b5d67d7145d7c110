package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/cucina/backend/config"
	"github.com/pageza/cucina/backend/internal/api"
	"github.com/pageza/cucina/backend/internal/models"
	"github.com/pageza/cucina/backend/internal/server"
	"github.com/pageza/cucina/backend/internal/testdb"
)

func request(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// familyDinner runs a whole evening through the HTTP API: two recipes are
// added, the family votes on them and the poll is closed.
func familyDinner(t *testing.T, db *gorm.DB) {
	h := server.New(&config.Config{ServerHost: "127.0.0.1", ServerPort: "0"}, db, nil, nil).Handler()

	w := request(t, h, http.MethodPost, "/api/v1/users", map[string]string{"name": "Mum", "email": "mum@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var mum models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mum))

	var ids []uuid.UUID
	for _, name := range []string{"Tacos", "Curry"} {
		w = request(t, h, http.MethodPost, "/api/v1/recipes", map[string]interface{}{
			"name":        name,
			"category":    models.CategoryDinner,
			"difficulty":  models.DifficultyMedium,
			"created_by":  mum.ID.String(),
			"ingredients": []map[string]interface{}{{"name": "rice", "amount": 2, "unit": "cups"}},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var r models.Recipe
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
		ids = append(ids, r.ID)
	}

	w = request(t, h, http.MethodGet, "/api/v1/recipes?creator="+mum.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine struct {
		Recipes []models.Recipe `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	assert.Len(t, mine.Recipes, 2)

	w = request(t, h, http.MethodPost, "/api/v1/polls", api.CreatePollRequest{
		Title:           "Tonight",
		RecipeIDs:       ids,
		DurationSeconds: 600,
		CreatedBy:       mum.ID.String(),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created api.PollResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	pollPath := "/api/v1/polls/" + created.Poll.ID.String()

	for _, choice := range []uuid.UUID{ids[1], ids[1], ids[0]} {
		w = request(t, h, http.MethodPost, pollPath+"/votes", api.VoteRequest{RecipeID: choice})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = request(t, h, http.MethodPost, pollPath+"/end", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ended api.PollResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ended))

	assert.Equal(t, models.PollEnded, ended.Results.Status)
	assert.Equal(t, 3, ended.Results.TotalVotes)
	require.NotNil(t, ended.Results.Winner)
	assert.Equal(t, ids[1], *ended.Results.Winner)
	assert.InDelta(t, 66.67, ended.Results.Options[1].Percentage, 0.01)

	w = request(t, h, http.MethodGet, "/api/v1/polls?state=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var completed struct {
		Polls []api.PollResponse `json:"polls"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &completed))
	require.Len(t, completed.Polls, 1)
	assert.Equal(t, created.Poll.ID, completed.Polls[0].Poll.ID)
}

func TestFamilyDinnerSQLite(t *testing.T) {
	familyDinner(t, testdb.SQLite(t))
}

func TestFamilyDinnerPostgres(t *testing.T) {
	familyDinner(t, testdb.Postgres(t))
}
