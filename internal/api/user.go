package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/cucina/backend/internal/models"
	"github.com/pageza/cucina/backend/internal/service"
)

type UserHandler struct {
	users     *service.UserService
	assistant *service.SuggestionService
	limit     gin.HandlerFunc
}

func NewUserHandler(users *service.UserService, assistant *service.SuggestionService, limit gin.HandlerFunc) *UserHandler {
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}
	return &UserHandler{users: users, assistant: assistant, limit: limit}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.POST("/:id/suggestions", h.limit, h.SuggestRecipes)
		users.GET("/:id/suggestions", h.GetSuggestions)
	}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var user models.User
	if !bindJSON(c, &user) {
		return
	}
	created, err := h.users.Create(c.Request.Context(), &user)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var user models.User
	if !bindJSON(c, &user) {
		return
	}
	user.ID = id

	ctx := c.Request.Context()
	if err := h.users.Update(ctx, &user); err != nil {
		_ = c.Error(err)
		return
	}
	updated, err := h.users.Get(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// SuggestRecipes asks the assistant for recipes fitting the user's
// preferences. The result is cached for GetSuggestions.
func (h *UserHandler) SuggestRecipes(c *gin.Context) {
	if h.assistant == nil {
		_ = c.Error(service.ErrAssistantDisabled)
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, err := h.users.Get(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	recipes, err := h.assistant.SuggestForUser(ctx, user)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *UserHandler) GetSuggestions(c *gin.Context) {
	if h.assistant == nil {
		_ = c.Error(service.ErrAssistantDisabled)
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipes, err := h.assistant.GetSuggestions(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
