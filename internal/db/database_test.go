package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counselorhub/counselorhub/internal/config"
	"github.com/counselorhub/counselorhub/internal/db"
	"github.com/counselorhub/counselorhub/internal/testutil"
)

func newCounterDB(t *testing.T) *db.Database {
	t.Helper()
	database := testutil.NewEmptyDatabase(t)
	_, err := database.DB.Exec(`CREATE TABLE counters (name TEXT PRIMARY KEY, n INTEGER NOT NULL)`)
	require.NoError(t, err)
	return database
}

func countRows(t *testing.T, database *db.Database) int {
	t.Helper()
	var n int
	require.NoError(t, database.DB.QueryRow(`SELECT COUNT(*) FROM counters`).Scan(&n))
	return n
}

func TestWithTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		database := newCounterDB(t)
		err := database.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO counters (name, n) VALUES ('a', 1)`)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 1, countRows(t, database))
	})

	t.Run("rolls back on error", func(t *testing.T) {
		database := newCounterDB(t)
		boom := errors.New("boom")
		err := database.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `INSERT INTO counters (name, n) VALUES ('a', 1)`); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, countRows(t, database))
	})

	t.Run("rolls back and re-panics", func(t *testing.T) {
		database := newCounterDB(t)
		assert.PanicsWithValue(t, "kaboom", func() {
			_ = database.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
				_, _ = tx.ExecContext(ctx, `INSERT INTO counters (name, n) VALUES ('a', 1)`)
				panic("kaboom")
			})
		})
		assert.Zero(t, countRows(t, database))
	})

	t.Run("sets a deadline", func(t *testing.T) {
		database := newCounterDB(t)
		err := database.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestDialect(t *testing.T) {
	pg := db.DialectFor(config.DriverPostgres)
	assert.Equal(t, "SELECT 1 WHERE a = $1 AND b = $2", pg.Rebind("SELECT 1 WHERE a = ? AND b = ?"))

	query, args, err := pg.Builder().Select("*").From("students").Where("student_id = ?", "S1").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM students WHERE student_id = $1", query)
	assert.Equal(t, []interface{}{"S1"}, args)

	for _, driver := range []string{config.DriverMySQL, config.DriverSQLite} {
		d := db.DialectFor(driver)
		assert.Equal(t, "SELECT 1 WHERE a = ?", d.Rebind("SELECT 1 WHERE a = ?"), driver)
		query, _, err := d.Builder().Select("*").From("students").Where("student_id = ?", "S1").ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM students WHERE student_id = ?", query, driver)
	}
}

func TestTableExists(t *testing.T) {
	database := newCounterDB(t)
	ctx := context.Background()

	ok, err := database.Dialect.TableExists(ctx, database.DB, "counters")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = database.Dialect.TableExists(ctx, database.DB, "career_assessments")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = t.TempDir() + "/nested/app.db"
	cfg.Database.MaxOpenConns = 1
	cfg.Database.ConnMaxLifetime = "1h"

	database, err := db.Open(cfg)
	require.NoError(t, err)
	defer database.Close()
	assert.Equal(t, config.DriverSQLite, database.Dialect.Name)

	var fk int
	require.NoError(t, database.DB.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)

	cfg.Database.Driver = "oracle"
	_, err = db.Open(cfg)
	assert.Error(t, err)
}
