package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/codec"
	"github.com/pageza/cucina/backend/internal/logger"
	"github.com/pageza/cucina/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrAssistantDisabled is returned when no API key is configured.
var ErrAssistantDisabled = errors.New("recipe assistant is not configured")

const (
	systemPrompt       = "You are a helpful cooking assistant."
	suggestionCacheTTL = 24 * time.Hour
)

// Message is a chat message sent to the completions API
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the chat-completions request body
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// SuggestionConfig holds the assistant endpoint settings.
type SuggestionConfig struct {
	APIURL     string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// SuggestionService talks to the recipe assistant and caches its
// suggestions per user in redis when a client is provided.
type SuggestionService struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
	redis  *redis.Client
	codec  *codec.Codec
	log    *logger.Logger
}

// NewSuggestionService creates a new SuggestionService instance. rdb may be nil.
func NewSuggestionService(cfg SuggestionConfig, rdb *redis.Client, c *codec.Codec, log *logger.Logger) *SuggestionService {
	if log == nil {
		log = logger.Nop()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4"
	}
	return &SuggestionService{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		model:  model,
		client: client,
		redis:  rdb,
		codec:  c,
		log:    log.With("component", "assistant"),
	}
}

// BuildInterpretPrompt renders the recipe for analysis.
func BuildInterpretPrompt(r *models.Recipe) string {
	ingredients := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, strings.TrimSpace(fmt.Sprintf("%g %s %s", ing.Amount, ing.Unit, ing.Name)))
	}

	var b strings.Builder
	b.WriteString("Analyze this recipe and provide insights:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", r.Name)
	fmt.Fprintf(&b, "Description: %s\n", r.Description)
	fmt.Fprintf(&b, "Ingredients: %s\n", strings.Join(ingredients, ", "))
	fmt.Fprintf(&b, "Instructions: %s\n\n", strings.Join(r.Instructions, "\n"))
	b.WriteString("Please provide:\n")
	b.WriteString("1. Nutritional information\n")
	b.WriteString("2. Cooking tips\n")
	b.WriteString("3. Potential variations\n")
	b.WriteString("4. Dietary considerations\n")
	return b.String()
}

// BuildSuggestPrompt renders preferences into a request for five recipes in
// the {"recipes": [...]} format ParseSuggestions reads.
func BuildSuggestPrompt(p models.Preferences) string {
	diets := make([]string, 0, len(p.DietaryRestrictions))
	for _, d := range p.DietaryRestrictions {
		diets = append(diets, string(d))
	}
	goals := make([]string, 0, len(p.HealthGoals))
	for _, g := range p.HealthGoals {
		goals = append(goals, string(g))
	}

	var b strings.Builder
	b.WriteString("Suggest recipes based on these preferences:\n\n")
	fmt.Fprintf(&b, "Dietary Restrictions: %s\n", strings.Join(diets, ", "))
	fmt.Fprintf(&b, "Cuisine Preferences: %s\n", strings.Join(p.CuisinePreferences, ", "))
	fmt.Fprintf(&b, "Spice Level: %s\n", p.SpiceLevel)
	fmt.Fprintf(&b, "Health Goals: %s\n\n", strings.Join(goals, ", "))
	b.WriteString("Please provide 5 recipe suggestions in JSON format with the following structure:\n")
	b.WriteString(`{"recipes": [{"name": "Recipe Name", "description": "Recipe Description", `)
	b.WriteString(`"ingredients": [{"name": "Ingredient Name", "amount": 1.0, "unit": "unit"}], `)
	b.WriteString(`"instructions": ["Step 1", "Step 2"], "category": "Category", "difficulty": "Difficulty", "servings": 4}]}`)
	b.WriteString("\nCategory must be one of: ")
	b.WriteString(joinLabels(models.Categories))
	b.WriteString(". Difficulty must be one of: ")
	b.WriteString(joinLabels(models.Difficulties))
	b.WriteString(".\n")
	return b.String()
}

func joinLabels[T ~string](values []T) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return strings.Join(out, ", ")
}

// InterpretRecipe asks the assistant for free-text notes on r.
func (s *SuggestionService) InterpretRecipe(ctx context.Context, r *models.Recipe) (string, error) {
	return s.complete(ctx, BuildInterpretPrompt(r))
}

// SuggestRecipes asks the assistant for recipes matching p. Suggestions
// that cannot be parsed yield an empty list rather than an error.
func (s *SuggestionService) SuggestRecipes(ctx context.Context, p models.Preferences) ([]*models.Recipe, error) {
	content, err := s.complete(ctx, BuildSuggestPrompt(p))
	if err != nil {
		return nil, err
	}

	list, err := codec.ParseSuggestions(content)
	if err != nil {
		s.log.Warn("unparseable suggestions", "error", err)
		return []*models.Recipe{}, nil
	}

	now := time.Now().UTC()
	recipes := make([]*models.Recipe, 0, len(list.Recipes))
	for _, suggested := range list.Recipes {
		r := s.codec.DecodeSuggestion(suggested)
		r.CreatedAt = now
		recipes = append(recipes, r)
	}
	return recipes, nil
}

// SuggestForUser fetches suggestions for the user's preferences and caches them.
func (s *SuggestionService) SuggestForUser(ctx context.Context, u *models.User) ([]*models.Recipe, error) {
	recipes, err := s.SuggestRecipes(ctx, u.Preferences)
	if err != nil {
		return nil, err
	}
	if err := s.SaveSuggestions(ctx, u.ID, recipes); err != nil {
		s.log.Warn("failed to cache suggestions", "user_id", u.ID.String(), "error", err)
	}
	return recipes, nil
}

func suggestionKey(userID uuid.UUID) string {
	return fmt.Sprintf("suggestions:%s", userID)
}

// SaveSuggestions caches recipes for userID for 24 hours. Without redis it
// does nothing.
func (s *SuggestionService) SaveSuggestions(ctx context.Context, userID uuid.UUID, recipes []*models.Recipe) error {
	if s.redis == nil {
		return nil
	}
	data, err := json.Marshal(recipes)
	if err != nil {
		return fmt.Errorf("failed to marshal suggestions: %w", err)
	}
	if err := s.redis.Set(ctx, suggestionKey(userID), data, suggestionCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to save suggestions to Redis: %w", err)
	}
	return nil
}

// GetSuggestions returns the cached suggestions for userID, or
// models.ErrNotFound when none are cached.
func (s *SuggestionService) GetSuggestions(ctx context.Context, userID uuid.UUID) ([]*models.Recipe, error) {
	if s.redis == nil {
		return nil, models.ErrNotFound
	}
	data, err := s.redis.Get(ctx, suggestionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestions from Redis: %w", err)
	}

	var recipes []*models.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal suggestions: %w", err)
	}
	return recipes, nil
}

func (s *SuggestionService) complete(ctx context.Context, prompt string) (string, error) {
	if s.apiKey == "" {
		return "", ErrAssistantDisabled
	}

	reqBody := Request{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		s.log.Error("assistant request failed", "status", resp.StatusCode)
		return "", fmt.Errorf("assistant returned status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}
	return result.Choices[0].Message.Content, nil
}
