// Package testdb provides throwaway databases for tests.
package testdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pageza/cucina/backend/config"
	"github.com/pageza/cucina/backend/internal/database"
	"github.com/pageza/cucina/backend/internal/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// SQLite opens a migrated sqlite database in a temporary file. The database
// is closed when the test ends.
func SQLite(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "cucina.db"),
	}
	db, err := database.Open(cfg, logger.Nop(), database.WithSilentSQL())
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, logger.Nop()))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// Postgres starts a postgres container and returns a migrated connection to
// it. The test is skipped when docker is unavailable or -short is set.
func Postgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "cucina",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Error terminating postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := &config.Config{
		DBDriver:   config.DriverPostgres,
		DBHost:     host,
		DBPort:     port.Port(),
		DBUser:     "test",
		DBPassword: "test",
		DBName:     "cucina",
		DBSSLMode:  "disable",
	}
	db, err := database.Open(cfg, logger.Nop(), database.WithSilentSQL())
	require.NoError(t, err, "connect to %s:%s", host, port.Port())
	require.NoError(t, database.RunMigrations(db, logger.Nop()))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// Redis starts a redis container and returns a client for it. It is
// skipped under the same conditions as Postgres.
func Redis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Error terminating redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	cfg := &config.Config{RedisHost: host, RedisPort: port.Port()}
	client, err := database.NewRedisClient(cfg, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, client)
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}
