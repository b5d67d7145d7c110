package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for env.
// All problems are reported together.
func ValidateConfig(cfg *Config, env Environment) error {
	var errs []error
	fail := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		fail("SERVER_PORT", fmt.Sprintf("invalid port %q", cfg.ServerPort))
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.DBPath == "" {
			fail("DB_PATH", "required for the sqlite driver")
		}
	case DriverPostgres:
		for field, value := range map[string]string{
			"DB_HOST": cfg.DBHost,
			"DB_PORT": cfg.DBPort,
			"DB_USER": cfg.DBUser,
			"DB_NAME": cfg.DBName,
		} {
			if value == "" {
				fail(field, "required for the postgres driver")
			}
		}
		// Local databases may run without a password; shared ones may not.
		if (env == CI || env == Production) && cfg.DBPassword == "" {
			fail("db_password", fmt.Sprintf("secret is required in %s", env))
		}
	default:
		fail("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.AIAPIKey != "" {
		if u, err := url.Parse(cfg.AIAPIURL); err != nil || u.Scheme == "" || u.Host == "" {
			fail("AI_API_URL", fmt.Sprintf("invalid url %q", cfg.AIAPIURL))
		}
	}

	return errors.Join(errs...)
}
