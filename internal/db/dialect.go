package db

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/counselorhub/counselorhub/internal/config"
)

// Dialect captures the few places where the supported SQL engines differ
type Dialect struct {
	Name string
}

// DialectFor returns the dialect of a config driver name
func DialectFor(driver string) Dialect {
	return Dialect{Name: driver}
}

// Builder returns a squirrel statement builder with the dialect's placeholder format
func (d Dialect) Builder() squirrel.StatementBuilderType {
	if d.Name == config.DriverPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// Rebind rewrites ? placeholders for the dialect
func (d Dialect) Rebind(query string) string {
	if d.Name != config.DriverPostgres {
		return query
	}
	out, err := squirrel.Dollar.ReplacePlaceholders(query)
	if err != nil {
		return query
	}
	return out
}

// TableExists reports whether the named table is present in the current schema
func (d Dialect) TableExists(ctx context.Context, q Querier, table string) (bool, error) {
	var query string
	switch d.Name {
	case config.DriverSQLite:
		query = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	case config.DriverMySQL:
		query = `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`
	default:
		query = `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?`
	}

	var count int
	if err := q.QueryRowContext(ctx, d.Rebind(query), table).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return count > 0, nil
}
