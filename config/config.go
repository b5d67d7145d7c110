package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration. Suggestion caching is disabled when neither
	// RedisURL nor RedisHost is set.
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Assistant configuration
	AIAPIURL string
	AIAPIKey string
	AIModel  string

	// Browser origins allowed to call the API
	CORSOrigins []string

	LogMode string
}

// RedisEnabled reports whether a redis endpoint was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		loadDevConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg, env); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig reads everything, secrets included, from environment variables
func loadCIConfig(cfg *Config) {
	loadCommon(cfg, "test")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.AIAPIKey = os.Getenv("AI_API_KEY")
}

// loadDevConfig uses local defaults. Secrets come from SECRETS_DIR when
// present and from the environment otherwise.
func loadDevConfig(cfg *Config) {
	loadCommon(cfg, "development")
	cfg.DBPassword = secretOrEnv("db_password", "DB_PASSWORD")
	cfg.RedisPassword = secretOrEnv("redis_password", "REDIS_PASSWORD")
	cfg.AIAPIKey = secretOrEnv("ai_api_key", "AI_API_KEY")
}

// loadProdConfig defaults to postgres and reads sensitive values from Docker secrets only
func loadProdConfig(cfg *Config) {
	loadCommon(cfg, "production")
	cfg.DBDriver = getEnv("DB_DRIVER", DriverPostgres)
	cfg.DBUser = firstNonEmpty(readSecret("db_user"), cfg.DBUser)
	cfg.DBPassword = readSecret("db_password")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.AIAPIKey = readSecret("ai_api_key")
}

func loadCommon(cfg *Config, logMode string) {
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")

	cfg.DBDriver = getEnv("DB_DRIVER", DriverSQLite)
	cfg.DBPath = getEnv("DB_PATH", "cucina.db")
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "cucina")
	cfg.DBName = getEnv("DB_NAME", "cucina")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")

	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)

	cfg.AIAPIURL = getEnv("AI_API_URL", "https://api.openai.com/v1/chat/completions")
	cfg.AIModel = getEnv("AI_MODEL", "gpt-4")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://frontend:5173"))

	cfg.LogMode = getEnv("LOG_MODE", logMode)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func secretOrEnv(secret, env string) string {
	return firstNonEmpty(readSecret(secret), os.Getenv(env))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
