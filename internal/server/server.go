package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/cucina/backend/config"
	"github.com/pageza/cucina/backend/internal/api"
	"github.com/pageza/cucina/backend/internal/logger"
	"github.com/pageza/cucina/backend/internal/middleware"
	"github.com/pageza/cucina/backend/internal/router"
	"github.com/pageza/cucina/backend/internal/service"
	"github.com/pageza/cucina/backend/internal/store"
)

const (
	assistantRateWindow = time.Hour
	assistantRateLimit  = 20
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *logger.Logger
}

// New wires the stores, services and handlers onto a router. rdb may be nil,
// which disables suggestion caching and assistant rate limiting.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	st := store.New(db, log)
	catalog := service.NewRecipeCatalog(st, log)
	engine := service.NewVotingEngine(st, log)
	users := service.NewUserService(st, log)
	assistant := service.NewSuggestionService(service.SuggestionConfig{
		APIURL: cfg.AIAPIURL,
		APIKey: cfg.AIAPIKey,
		Model:  cfg.AIModel,
	}, rdb, st.Codec(), log)

	limiter := middleware.NewRateLimiter(rdb, middleware.RateLimitConfig{
		Window:    assistantRateWindow,
		Limit:     assistantRateLimit,
		KeyPrefix: "ratelimit:assistant",
	}, log)

	r := router.SetupRouter(log, cfg.CORSOrigins, router.Handlers{
		Health:  api.NewHealthHandler(db),
		Recipes: api.NewRecipeHandler(catalog, assistant, limiter.Middleware()),
		Users:   api.NewUserHandler(users, assistant, limiter.Middleware()),
		Polls:   api.NewPollHandler(engine),
	})

	return &Server{
		router: r,
		log:    log,
		http: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.log.Info("starting server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
