package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pageza/cucina/backend/config"
	"github.com/pageza/cucina/backend/internal/database"
	"github.com/pageza/cucina/backend/internal/logger"
	"github.com/pageza/cucina/backend/internal/model"
	"github.com/pageza/cucina/backend/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "open.db"),
	}
	db, err := database.Open(cfg, logger.Nop(), database.WithSilentSQL())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.RunMigrations(db, logger.Nop()))
	require.NoError(t, database.RunMigrations(db, logger.Nop()), "migrations must be repeatable")

	for _, table := range database.Tables() {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.NoError(t, database.HealthCheck(context.Background(), db))

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := database.Open(&config.Config{DBDriver: "mysql"}, logger.Nop())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestDSNs(t *testing.T) {
	assert.Equal(t, "family.db?_foreign_keys=on&_busy_timeout=5000", database.SQLiteDSN("family.db"))
	assert.Equal(t,
		"host=db port=5432 user=cucina password=secret dbname=cucina sslmode=disable",
		database.PostgresDSN(&config.Config{
			DBHost: "db", DBPort: "5432", DBUser: "cucina", DBPassword: "secret", DBName: "cucina", DBSSLMode: "disable",
		}),
	)
}

func TestHealthCheckAfterClose(t *testing.T) {
	db := testdb.SQLite(t)
	require.NoError(t, database.Close(db))
	assert.Error(t, database.HealthCheck(context.Background(), db))
}

func TestRedisDisabledWithoutEndpoint(t *testing.T) {
	client, err := database.NewRedisClient(&config.Config{}, logger.Nop())
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestPostgresMigrations(t *testing.T) {
	db := testdb.Postgres(t)

	for _, table := range database.Tables() {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.True(t, db.Migrator().HasIndex(&model.PollOption{}, "idx_poll_option_recipe"))
}
