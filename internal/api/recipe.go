package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/cucina/backend/internal/models"
	"github.com/pageza/cucina/backend/internal/service"
)

// RecipeHandler serves the recipe catalog. The assistant is optional.
type RecipeHandler struct {
	catalog   *service.RecipeCatalog
	assistant *service.SuggestionService
	limit     gin.HandlerFunc
}

func NewRecipeHandler(catalog *service.RecipeCatalog, assistant *service.SuggestionService, limit gin.HandlerFunc) *RecipeHandler {
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}
	return &RecipeHandler{catalog: catalog, assistant: assistant, limit: limit}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", h.CreateRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.POST("/:id/interpret", h.limit, h.InterpretRecipe)
	}
}

// ListRecipes answers one query per request. top wins over creator, creator
// over q, and q over the category and difficulty filters.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	ctx := c.Request.Context()

	top, hasTop, err := queryInt(c, "top")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var recipes []*models.Recipe
	switch {
	case hasTop:
		recipes, err = h.catalog.TopVoted(ctx, top)
	case c.Query("creator") != "":
		recipes, err = h.catalog.ByCreator(ctx, c.Query("creator"))
	case c.Query("q") != "":
		recipes, err = h.catalog.Search(ctx, c.Query("q"))
	default:
		var f service.RecipeFilter
		if raw := c.Query("category"); raw != "" {
			category := models.Category(raw)
			if !category.Valid() {
				badRequest(c, "unknown category %q", raw)
				return
			}
			f.Category = &category
		}
		if raw := c.Query("difficulty"); raw != "" {
			difficulty := models.Difficulty(raw)
			if !difficulty.Valid() {
				badRequest(c, "unknown difficulty %q", raw)
				return
			}
			f.Difficulty = &difficulty
		}
		recipes, err = h.catalog.Filter(ctx, f)
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var recipe models.Recipe
	if !bindJSON(c, &recipe) {
		return
	}
	created, err := h.catalog.Add(c.Request.Context(), &recipe)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateRecipe replaces the recipe at :id. The body's id is ignored.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var recipe models.Recipe
	if !bindJSON(c, &recipe) {
		return
	}
	recipe.ID = id

	ctx := c.Request.Context()
	if err := h.catalog.Update(ctx, &recipe); err != nil {
		_ = c.Error(err)
		return
	}
	updated, err := h.catalog.Get(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) InterpretRecipe(c *gin.Context) {
	if h.assistant == nil {
		_ = c.Error(service.ErrAssistantDisabled)
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	recipe, err := h.catalog.Get(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	notes, err := h.assistant.InterpretRecipe(ctx, recipe)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe_id": id, "interpretation": notes})
}
