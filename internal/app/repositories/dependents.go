package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/counselorhub/counselorhub/internal/app/models"
	"github.com/counselorhub/counselorhub/internal/db"
	"github.com/counselorhub/counselorhub/internal/pkg/logger"
)

// DependentsRepository counts the rows that reference a student across the dependent tables
type DependentsRepository struct {
	q       db.Querier
	sb      squirrel.StatementBuilderType
	dialect db.Dialect
	tables  []string
}

// NewDependentsRepository creates a DependentsRepository over models.StudentDependentTables
func NewDependentsRepository(database *db.Database) *DependentsRepository {
	return &DependentsRepository{
		q:       database.DB,
		sb:      database.Dialect.Builder(),
		dialect: database.Dialect,
		tables:  models.StudentDependentTables,
	}
}

// WithTx returns a copy of the repository that runs its statements in tx
func (r *DependentsRepository) WithTx(tx *sql.Tx) *DependentsRepository {
	return &DependentsRepository{q: tx, sb: r.sb, dialect: r.dialect, tables: r.tables}
}

// Tables returns the dependent tables in reporting order
func (r *DependentsRepository) Tables() []string {
	return r.tables
}

// ExistingTables returns the dependent tables present in the schema, in reporting order
func (r *DependentsRepository) ExistingTables(ctx context.Context) ([]string, error) {
	existing := make([]string, 0, len(r.tables))
	for _, table := range r.tables {
		ok, err := r.dialect.TableExists(ctx, r.q, table)
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Debug().Str("table", table).Msg("Dependent table absent, skipping")
			continue
		}
		existing = append(existing, table)
	}
	return existing, nil
}

// CountForStudent counts rows of table that reference studentID, in any state
func (r *DependentsRepository) CountForStudent(ctx context.Context, table, studentID string) (int64, error) {
	query, args, err := r.sb.Select("COUNT(*)").From(table).Where(squirrel.Eq{"student_id": studentID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query for %s: %w", table, err)
	}

	var count int64
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Str("table", table).Str("studentID", studentID).Msg("Error counting dependents")
		return 0, fmt.Errorf("error counting %s rows: %w", table, err)
	}
	return count, nil
}

// CountAllForStudent counts the dependents of studentID in each of tables
func (r *DependentsRepository) CountAllForStudent(ctx context.Context, tables []string, studentID string) (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		n, err := r.CountForStudent(ctx, table, studentID)
		if err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}
