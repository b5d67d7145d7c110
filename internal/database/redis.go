package database

import (
	"context"
	"fmt"
	"time"

	"github.com/pageza/cucina/backend/config"
	"github.com/pageza/cucina/backend/internal/logger"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a new Redis client. It returns nil, nil when no
// redis endpoint is configured.
func NewRedisClient(cfg *config.Config, log *logger.Logger) (*redis.Client, error) {
	if !cfg.RedisEnabled() {
		log.Info("redis not configured, suggestion cache disabled")
		return nil, nil
	}

	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	// Use Redis URL if provided (for production deployments)
	if cfg.RedisURL != "" {
		parsedOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts = parsedOpts
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("connected to redis", "addr", opts.Addr)
	return client, nil
}
