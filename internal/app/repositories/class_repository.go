package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/counselorhub/counselorhub/internal/app/models"
	"github.com/counselorhub/counselorhub/internal/db"
	"github.com/counselorhub/counselorhub/internal/pkg/apperrors"
	"github.com/counselorhub/counselorhub/internal/pkg/dberrors"
	"github.com/counselorhub/counselorhub/internal/pkg/logger"
)

// ClassRepository handles database operations for classes
type ClassRepository struct {
	q  db.Querier
	sb squirrel.StatementBuilderType
}

// NewClassRepository creates a new ClassRepository
func NewClassRepository(database *db.Database) *ClassRepository {
	return &ClassRepository{
		q:  database.DB,
		sb: database.Dialect.Builder(),
	}
}

// WithTx returns a copy of the repository that runs its statements in tx
func (r *ClassRepository) WithTx(tx *sql.Tx) *ClassRepository {
	return &ClassRepository{q: tx, sb: r.sb}
}

// selectClasses selects class columns with student_count computed from active students
func (r *ClassRepository) selectClasses() squirrel.SelectBuilder {
	studentCount := squirrel.Alias(
		squirrel.Expr("(SELECT COUNT(*) FROM "+models.TableStudents+" s WHERE s.class_id = c.class_id AND s.is_active = ?)", true),
		"student_count")

	return r.sb.Select(
		"c.class_id", "c.name", "c.grade_level", "c.academic_year", "c.teacher_name",
		"c.is_active", "c.created_at", "c.updated_at", "c.deleted_at",
	).Column(studentCount).From(models.TableClasses + " c")
}

func scanClass(row interface{ Scan(...interface{}) error }) (*models.Class, error) {
	c := &models.Class{}
	err := row.Scan(&c.ClassID, &c.Name, &c.GradeLevel, &c.AcademicYear, &c.TeacherName,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt, &c.StudentCount)
	return c, err
}

// Create inserts a new class
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	query, args, err := r.sb.Insert(models.TableClasses).
		Columns("class_id", "name", "grade_level", "academic_year", "teacher_name",
			"is_active", "created_at", "updated_at").
		Values(class.ClassID, class.Name, class.GradeLevel, class.AcademicYear, class.TeacherName,
			class.IsActive, class.CreatedAt, class.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create class query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.Conflict("Class %s already exists", class.ClassID)
		}
		logger.Error().Err(err).Str("classID", class.ClassID).Msg("Error executing create class query")
		return fmt.Errorf("error creating class: %w", err)
	}
	return nil
}

// GetByID retrieves a class by ID within the given view
func (r *ClassRepository) GetByID(ctx context.Context, classID string, state ActivityFilter) (*models.Class, error) {
	sel := state.apply(r.selectClasses().Where(squirrel.Eq{"c.class_id": classID}), "c.is_active")
	query, args, err := sel.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get class query: %w", err)
	}

	class, err := scanClass(r.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("Class %s not found", classID)
		}
		logger.Error().Err(err).Str("classID", classID).Msg("Error scanning class row")
		return nil, fmt.Errorf("error getting class by ID: %w", err)
	}
	return class, nil
}

// List returns one page of classes in the given view plus the total count
func (r *ClassRepository) List(ctx context.Context, state ActivityFilter, opts ListOptions) ([]*models.Class, int64, error) {
	query, args, err := state.apply(r.sb.Select("COUNT(*)").From(models.TableClasses), "is_active").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count classes query: %w", err)
	}
	var total int64
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting classes")
		return nil, 0, fmt.Errorf("error counting classes: %w", err)
	}

	sel := state.apply(r.selectClasses(), "c.is_active")
	if state == DeletedOnly {
		sel = sel.OrderBy("c.deleted_at DESC", "c.class_id ASC")
	} else {
		sel = sel.OrderBy("c.name ASC", "c.class_id ASC")
	}
	query, args, err = opts.apply(sel).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list classes query: %w", err)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list classes query")
		return nil, 0, fmt.Errorf("error querying classes: %w", err)
	}
	defer rows.Close()

	classes := []*models.Class{}
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning class row: %w", err)
		}
		classes = append(classes, class)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating class rows: %w", err)
	}
	return classes, total, nil
}

// Update writes the mutable fields of an active class
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	query, args, err := r.sb.Update(models.TableClasses).
		SetMap(map[string]interface{}{
			"name":          class.Name,
			"grade_level":   class.GradeLevel,
			"academic_year": class.AcademicYear,
			"teacher_name":  class.TeacherName,
			"updated_at":    class.UpdatedAt,
		}).
		Where(squirrel.Eq{"class_id": class.ClassID, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update class query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("classID", class.ClassID).Msg("Error executing update class query")
		return fmt.Errorf("error updating class: %w", err)
	}
	return requireAffected(res, apperrors.NotFound("Class %s not found", class.ClassID))
}

// SoftDelete flips an active class to inactive
func (r *ClassRepository) SoftDelete(ctx context.Context, classID string, at time.Time) error {
	return setInactive(ctx, r.q, r.sb, models.TableClasses, "class_id", classID, at,
		apperrors.NotFound("Class %s not found", classID))
}

// Restore flips a class back to active
func (r *ClassRepository) Restore(ctx context.Context, classID string, at time.Time) error {
	return setActive(ctx, r.q, r.sb, models.TableClasses, "class_id", classID, at,
		apperrors.NotFound("Class %s not found", classID))
}

// Delete permanently removes a class row
func (r *ClassRepository) Delete(ctx context.Context, classID string) error {
	query, args, err := r.sb.Delete(models.TableClasses).Where(squirrel.Eq{"class_id": classID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete class query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.Conflict("Class %s is still referenced by students", classID)
		}
		logger.Error().Err(err).Str("classID", classID).Msg("Error executing delete class query")
		return fmt.Errorf("error deleting class: %w", err)
	}
	return requireAffected(res, apperrors.NotFound("Class %s not found", classID))
}
