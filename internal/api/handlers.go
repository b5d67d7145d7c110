package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/database"
	"github.com/pageza/cucina/backend/internal/middleware"
	"gorm.io/gorm"
)

// HealthHandler reports whether the API and its database are reachable.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.HealthCheck)
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx, h.db); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Cucina API is running",
	})
}

func badRequest(c *gin.Context, format string, args ...interface{}) {
	_ = c.Error(fmt.Errorf("%w: %s", middleware.ErrBadRequest, fmt.Sprintf(format, args...)))
}

// pathID parses the :name path parameter. On failure the error is recorded
// and ok is false.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid %s %q", name, c.Param(name))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "%v", err)
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string) (int, bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%w: %s must be an integer", middleware.ErrBadRequest, key)
	}
	return n, true, nil
}
