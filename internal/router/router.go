package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pageza/cucina/backend/internal/api"
	"github.com/pageza/cucina/backend/internal/logger"
	"github.com/pageza/cucina/backend/internal/middleware"
)

// Handlers groups everything mounted under /api/v1.
type Handlers struct {
	Health  *api.HealthHandler
	Recipes *api.RecipeHandler
	Users   *api.UserHandler
	Polls   *api.PollHandler
}

// SetupRouter configures the application routes
func SetupRouter(log *logger.Logger, corsOrigins []string, h Handlers) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(corsOrigins))
	router.Use(middleware.ErrorHandler(log))

	// API v1 routes
	v1 := router.Group("/api/v1")
	h.Health.RegisterRoutes(v1)
	h.Recipes.RegisterRoutes(v1)
	h.Users.RegisterRoutes(v1)
	h.Polls.RegisterRoutes(v1)

	return router
}
