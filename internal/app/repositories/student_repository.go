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

// StudentFilter narrows student list queries
type StudentFilter struct {
	State   ActivityFilter
	ClassID string
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	q  db.Querier
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(database *db.Database) *StudentRepository {
	return &StudentRepository{
		q:  database.DB,
		sb: database.Dialect.Builder(),
	}
}

// WithTx returns a copy of the repository that runs its statements in tx
func (r *StudentRepository) WithTx(tx *sql.Tx) *StudentRepository {
	return &StudentRepository{q: tx, sb: r.sb}
}

// selectStudents joins the owning user so list and detail reads carry name, email and username
func (r *StudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.student_id", "s.user_id", "s.class_id", "s.academic_status", "s.program",
		"s.mental_health_score", "s.is_active", "s.created_at", "s.updated_at", "s.deleted_at",
		"u.name", "u.email", "u.username",
	).
		From(models.TableStudents + " s").
		LeftJoin(models.TableUsers + " u ON u.user_id = s.user_id")
}

func scanStudent(row interface{ Scan(...interface{}) error }) (*models.Student, error) {
	s := &models.Student{}
	var name, email, username sql.NullString
	err := row.Scan(&s.StudentID, &s.UserID, &s.ClassID, &s.AcademicStatus, &s.Program,
		&s.MentalHealthScore, &s.IsActive, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
		&name, &email, &username)
	if err != nil {
		return nil, err
	}
	s.Name, s.Email, s.Username = name.String, email.String, username.String
	return s, nil
}

// Create inserts a new student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query, args, err := r.sb.Insert(models.TableStudents).
		Columns("student_id", "user_id", "class_id", "academic_status", "program",
			"mental_health_score", "is_active", "created_at", "updated_at").
		Values(student.StudentID, student.UserID, student.ClassID, student.AcademicStatus, student.Program,
			student.MentalHealthScore, student.IsActive, student.CreatedAt, student.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		switch {
		case dberrors.IsDuplicateKeyError(err):
			return apperrors.Conflict("Student %s already exists or user %s already has a student record",
				student.StudentID, student.UserID)
		case dberrors.IsForeignKeyError(err):
			return apperrors.NotFound("User or class referenced by student %s not found", student.StudentID)
		}
		logger.Error().Err(err).Str("studentID", student.StudentID).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// GetByID retrieves a student by ID within the given view
func (r *StudentRepository) GetByID(ctx context.Context, studentID string, state ActivityFilter) (*models.Student, error) {
	sel := state.apply(r.selectStudents().Where(squirrel.Eq{"s.student_id": studentID}), "s.is_active")
	query, args, err := sel.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("Student %s not found", studentID)
		}
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return student, nil
}

// List returns one page of students plus the total matching count
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter, opts ListOptions) ([]*models.Student, int64, error) {
	where := squirrel.And{}
	if filter.ClassID != "" {
		where = append(where, squirrel.Eq{"s.class_id": filter.ClassID})
	}

	countQ := filter.State.apply(
		r.sb.Select("COUNT(*)").From(models.TableStudents+" s").Where(where), "s.is_active")
	query, args, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}
	var total int64
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting students")
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	sel := filter.State.apply(r.selectStudents().Where(where), "s.is_active")
	if filter.State == DeletedOnly {
		sel = sel.OrderBy("s.deleted_at DESC", "s.student_id ASC")
	} else {
		sel = sel.OrderBy("s.student_id ASC")
	}
	query, args, err = opts.apply(sel).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, 0, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, total, nil
}

// Update writes the mutable fields of an active student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	query, args, err := r.sb.Update(models.TableStudents).
		SetMap(map[string]interface{}{
			"class_id":            student.ClassID,
			"academic_status":     student.AcademicStatus,
			"program":             student.Program,
			"mental_health_score": student.MentalHealthScore,
			"updated_at":          student.UpdatedAt,
		}).
		Where(squirrel.Eq{"student_id": student.StudentID, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NotFound("Class referenced by student %s not found", student.StudentID)
		}
		logger.Error().Err(err).Str("studentID", student.StudentID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}
	return requireAffected(res, apperrors.NotFound("Student %s not found", student.StudentID))
}

// SoftDelete flips an active student to inactive. The owning user is left untouched.
func (r *StudentRepository) SoftDelete(ctx context.Context, studentID string, at time.Time) error {
	return setInactive(ctx, r.q, r.sb, models.TableStudents, "student_id", studentID, at,
		apperrors.NotFound("Student %s not found", studentID))
}

// Restore flips a student back to active
func (r *StudentRepository) Restore(ctx context.Context, studentID string, at time.Time) error {
	return setActive(ctx, r.q, r.sb, models.TableStudents, "student_id", studentID, at,
		apperrors.NotFound("Student %s not found", studentID))
}

// CountByClass counts students referencing a class, in any state
func (r *StudentRepository) CountByClass(ctx context.Context, classID string) (int64, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From(models.TableStudents).
		Where(squirrel.Eq{"class_id": classID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students by class query: %w", err)
	}

	var count int64
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Str("classID", classID).Msg("Error counting students of class")
		return 0, fmt.Errorf("error counting students by class: %w", err)
	}
	return count, nil
}

// Delete permanently removes a student row. Dependent records go through ON DELETE CASCADE.
func (r *StudentRepository) Delete(ctx context.Context, studentID string) error {
	query, args, err := r.sb.Delete(models.TableStudents).Where(squirrel.Eq{"student_id": studentID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}
	return requireAffected(res, apperrors.NotFound("Student %s not found", studentID))
}
