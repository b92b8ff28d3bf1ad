// Package testutil opens throwaway sqlite databases with the full schema for tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/counselorhub/counselorhub/internal/app/migrations"
	"github.com/counselorhub/counselorhub/internal/config"
	"github.com/counselorhub/counselorhub/internal/db"
)

// NewDatabase returns a migrated sqlite database in a temp dir. It is closed on test cleanup.
func NewDatabase(t *testing.T) *db.Database {
	t.Helper()
	database := NewEmptyDatabase(t)

	migrator, err := migrations.NewMigrator(database)
	require.NoError(t, err)
	_, err = migrator.Up(context.Background())
	require.NoError(t, err)

	return database
}

// NewEmptyDatabase returns a sqlite database without any schema
func NewEmptyDatabase(t *testing.T) *db.Database {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	sqlDB, err := sql.Open("sqlite", config.SQLiteDSN(path))
	require.NoError(t, err)
	// One connection keeps sqlite writers from contending for the file lock
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, sqlDB.Ping())

	t.Cleanup(func() { _ = sqlDB.Close() })
	return &db.Database{DB: sqlDB, Dialect: db.DialectFor(config.DriverSQLite)}
}
