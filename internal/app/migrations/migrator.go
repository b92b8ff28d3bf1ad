package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/counselorhub/counselorhub/internal/db"
	"github.com/counselorhub/counselorhub/internal/pkg/logger"
)

//go:embed sql/*/*.sql
var embedded embed.FS

var migrationFilePattern = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)

// Migration is one versioned schema step
type Migration struct {
	Version string
	Name    string
	Up      string
	Down    string
}

// Status describes whether a migration has been applied
type Status struct {
	Version   string
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

// Migrator manages database migrations
type Migrator struct {
	database   *db.Database
	migrations []Migration
}

// NewMigrator creates a migrator over the embedded migration set of the database dialect
func NewMigrator(database *db.Database) (*Migrator, error) {
	sub, err := fs.Sub(embedded, path.Join("sql", database.Dialect.Name))
	if err != nil {
		return nil, fmt.Errorf("no migrations for dialect %s: %w", database.Dialect.Name, err)
	}
	return NewMigratorFromFS(database, sub)
}

// NewMigratorFromFS creates a migrator reading NNN_name.up.sql / NNN_name.down.sql files from fsys
func NewMigratorFromFS(database *db.Database, fsys fs.FS) (*Migrator, error) {
	migrations, err := loadMigrations(fsys)
	if err != nil {
		return nil, err
	}
	return &Migrator{database: database, migrations: migrations}, nil
}

// loadMigrations pairs up/down files by version and sorts them
func loadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	byVersion := map[string]*Migration{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := migrationFilePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		version, name, direction := match[1], match[2], match[3]

		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		m, ok := byVersion[version]
		if !ok {
			m = &Migration{Version: version, Name: name}
			byVersion[version] = m
		} else if m.Name != name {
			return nil, fmt.Errorf("migration %s has conflicting names %q and %q", version, m.Name, name)
		}

		if direction == "up" {
			m.Up = string(content)
		} else {
			m.Down = string(content)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if strings.TrimSpace(m.Up) == "" {
			return nil, fmt.Errorf("migration %s_%s has no up step", m.Version, m.Name)
		}
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		applied_at TIMESTAMP NOT NULL
	)`

	if _, err := m.database.DB.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// applied returns the applied versions with their timestamps
func (m *Migrator) applied(ctx context.Context) (map[string]time.Time, error) {
	rows, err := m.database.DB.QueryContext(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := map[string]time.Time{}
	for rows.Next() {
		var version string
		var appliedAt time.Time
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan applied migration: %w", err)
		}
		applied[version] = appliedAt
	}
	return applied, rows.Err()
}

// Up applies every pending migration in version order and returns how many ran
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return 0, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, migration := range m.migrations {
		if _, ok := applied[migration.Version]; ok {
			logger.Debug().Str("version", migration.Version).Msg("Migration already applied, skipping")
			continue
		}

		err := m.database.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
			if err := execStatements(ctx, tx, migration.Up); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				m.database.Dialect.Rebind(`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`),
				migration.Version, migration.Name, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("failed to record migration: %w", err)
			}
			return nil
		})
		if err != nil {
			return count, fmt.Errorf("migration %s_%s failed: %w", migration.Version, migration.Name, err)
		}

		logger.Info().Str("version", migration.Version).Str("name", migration.Name).Msg("Migration applied")
		count++
	}
	return count, nil
}

// Down reverts the latest steps applied migrations and returns how many were reverted
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	if steps <= 0 {
		return 0, errors.New("steps must be positive")
	}
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return 0, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := len(m.migrations) - 1; i >= 0 && count < steps; i-- {
		migration := m.migrations[i]
		if _, ok := applied[migration.Version]; !ok {
			continue
		}
		if strings.TrimSpace(migration.Down) == "" {
			return count, fmt.Errorf("migration %s_%s has no down step", migration.Version, migration.Name)
		}

		err := m.database.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
			if err := execStatements(ctx, tx, migration.Down); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				m.database.Dialect.Rebind(`DELETE FROM schema_migrations WHERE version = ?`), migration.Version)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("revert %s_%s failed: %w", migration.Version, migration.Name, err)
		}

		logger.Info().Str("version", migration.Version).Str("name", migration.Name).Msg("Migration reverted")
		count++
	}
	return count, nil
}

// Status lists every known migration with its applied state
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return nil, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(m.migrations))
	for _, migration := range m.migrations {
		s := Status{Version: migration.Version, Name: migration.Name}
		if at, ok := applied[migration.Version]; ok {
			s.Applied = true
			at := at
			s.AppliedAt = &at
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

// execStatements runs a migration body one statement at a time.
// Not every driver accepts several statements in a single Exec.
func execStatements(ctx context.Context, tx *sql.Tx, body string) error {
	for _, stmt := range splitStatements(body) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error executing %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

// splitStatements splits a body on semicolons. Migration files keep semicolons
// out of string literals and comments.
func splitStatements(body string) []string {
	var statements []string
	for _, part := range strings.Split(body, ";") {
		stmt := strings.TrimSpace(stripComments(part))
		if stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func stripComments(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
