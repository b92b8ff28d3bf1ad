package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/counselorhub/counselorhub/internal/app/models"
	"github.com/counselorhub/counselorhub/internal/app/repositories"
	"github.com/counselorhub/counselorhub/internal/db"
	"github.com/counselorhub/counselorhub/internal/pkg/apperrors"
	"github.com/counselorhub/counselorhub/internal/pkg/logger"
)

// LifecycleOptions tunes the hard delete rules
type LifecycleOptions struct {
	// RequireSoftDelete rejects hard deletes of rows that are still active
	RequireSoftDelete bool
}

// LifecycleService owns soft delete, restore and hard delete of users, classes and students.
// Every multi-statement operation runs in one transaction.
type LifecycleService struct {
	database *db.Database
	repos    *repositories.Repositories
	opts     LifecycleOptions
	now      Clock
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(database *db.Database, repos *repositories.Repositories, opts LifecycleOptions) *LifecycleService {
	return &LifecycleService{
		database: database,
		repos:    repos,
		opts:     opts,
		now:      utcNow,
	}
}

// SoftDeleteStudent hides an active student. The owning user stays active.
func (s *LifecycleService) SoftDeleteStudent(ctx context.Context, studentID string) error {
	if err := s.repos.StudentRepository.SoftDelete(ctx, studentID, s.now()); err != nil {
		return err
	}
	logger.Info().Str("studentID", studentID).Msg("Student soft deleted")
	return nil
}

// SoftDeleteUser hides an active user. Its student row, if any, is left untouched.
func (s *LifecycleService) SoftDeleteUser(ctx context.Context, userID string) error {
	if err := s.repos.UserRepository.SoftDelete(ctx, userID, s.now()); err != nil {
		return err
	}
	logger.Info().Str("userID", userID).Msg("User soft deleted")
	return nil
}

// SoftDeleteClass hides an active class
func (s *LifecycleService) SoftDeleteClass(ctx context.Context, classID string) error {
	if err := s.repos.ClassRepository.SoftDelete(ctx, classID, s.now()); err != nil {
		return err
	}
	logger.Info().Str("classID", classID).Msg("Class soft deleted")
	return nil
}

// RestoreStudent reactivates a soft-deleted student together with its user
func (s *LifecycleService) RestoreStudent(ctx context.Context, studentID string) (*models.Student, error) {
	var restored *models.Student
	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		students := s.repos.StudentRepository.WithTx(tx)

		student, err := students.GetByID(ctx, studentID, repositories.AnyState)
		if err != nil {
			return err
		}
		if student.IsActive {
			return apperrors.InvalidState("Student %s is already active", studentID)
		}

		now := s.now()
		if err := students.Restore(ctx, studentID, now); err != nil {
			return err
		}
		if err := s.repos.UserRepository.WithTx(tx).Restore(ctx, student.UserID, now); err != nil {
			return fmt.Errorf("error restoring user %s of student %s: %w", student.UserID, studentID, err)
		}

		restored, err = students.GetByID(ctx, studentID, repositories.ActiveOnly)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("studentID", studentID).Str("userID", restored.UserID).Msg("Student restored with its user")
	return restored, nil
}

// RestoreUser reactivates a soft-deleted user
func (s *LifecycleService) RestoreUser(ctx context.Context, userID string) (*models.User, error) {
	users := s.repos.UserRepository

	user, err := users.GetByID(ctx, userID, repositories.AnyState)
	if err != nil {
		return nil, err
	}
	if user.IsActive {
		return nil, apperrors.InvalidState("User %s is already active", userID)
	}

	if err := users.Restore(ctx, userID, s.now()); err != nil {
		return nil, err
	}
	logger.Info().Str("userID", userID).Msg("User restored")
	return users.GetByID(ctx, userID, repositories.ActiveOnly)
}

// RestoreClass reactivates a soft-deleted class
func (s *LifecycleService) RestoreClass(ctx context.Context, classID string) (*models.Class, error) {
	classes := s.repos.ClassRepository

	class, err := classes.GetByID(ctx, classID, repositories.AnyState)
	if err != nil {
		return nil, err
	}
	if class.IsActive {
		return nil, apperrors.InvalidState("Class %s is already active", classID)
	}

	if err := classes.Restore(ctx, classID, s.now()); err != nil {
		return nil, err
	}
	logger.Info().Str("classID", classID).Msg("Class restored")
	return classes.GetByID(ctx, classID, repositories.ActiveOnly)
}

// HardDeleteStudent permanently removes a student and, through the database cascade,
// every row that references it. The owning user row is kept.
func (s *LifecycleService) HardDeleteStudent(ctx context.Context, studentID string) (*models.HardDeleteResult, error) {
	var result *models.HardDeleteResult
	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		result, err = s.hardDeleteStudentTx(ctx, tx, studentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("studentID", studentID).
		Str("userID", result.UserID).
		Interface("deletedRecords", result.DeletedRecords).
		Msg("Student hard deleted")
	return result, nil
}

func (s *LifecycleService) hardDeleteStudentTx(ctx context.Context, tx *sql.Tx, studentID string) (*models.HardDeleteResult, error) {
	students := s.repos.StudentRepository.WithTx(tx)
	dependents := s.repos.DependentsRepository.WithTx(tx)

	student, err := students.GetByID(ctx, studentID, repositories.AnyState)
	if err != nil {
		return nil, err
	}
	if s.opts.RequireSoftDelete && student.IsActive {
		return nil, apperrors.InvalidState("Student %s must be soft deleted before it can be permanently deleted", studentID)
	}

	tables, err := dependents.ExistingTables(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := dependents.CountAllForStudent(ctx, tables, studentID)
	if err != nil {
		return nil, err
	}

	if err := students.Delete(ctx, studentID); err != nil {
		return nil, err
	}

	// The cascade is enforced by the database; anything left behind means it was not.
	remaining, err := dependents.CountAllForStudent(ctx, tables, studentID)
	if err != nil {
		return nil, err
	}
	for _, table := range tables {
		if n := remaining[table]; n > 0 {
			logger.Error().Str("studentID", studentID).Str("table", table).Int64("orphans", n).
				Msg("Cascade left dependent rows, rolling back")
			return nil, fmt.Errorf("hard delete of student %s left %d rows in %s", studentID, n, table)
		}
	}

	return &models.HardDeleteResult{
		StudentID:      studentID,
		UserID:         student.UserID,
		DeletedRecords: counts,
		UserPreserved:  true,
	}, nil
}

// HardDeleteClass permanently removes a class that no student references, in any state
func (s *LifecycleService) HardDeleteClass(ctx context.Context, classID string) error {
	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		classes := s.repos.ClassRepository.WithTx(tx)

		class, err := classes.GetByID(ctx, classID, repositories.AnyState)
		if err != nil {
			return err
		}
		if s.opts.RequireSoftDelete && class.IsActive {
			return apperrors.InvalidState("Class %s must be soft deleted before it can be permanently deleted", classID)
		}

		refs, err := s.repos.StudentRepository.WithTx(tx).CountByClass(ctx, classID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return apperrors.Conflict("Cannot delete class %s: %d students still reference it", classID, refs).
				WithDetails(map[string]interface{}{"classId": classID, "studentCount": refs})
		}

		return classes.Delete(ctx, classID)
	})
	if err != nil {
		return err
	}

	logger.Info().Str("classID", classID).Msg("Class hard deleted")
	return nil
}

// BulkHardDeleteStudents hard deletes each id in its own transaction and keeps going past failures
func (s *LifecycleService) BulkHardDeleteStudents(ctx context.Context, studentIDs []string) (*models.BulkHardDeleteResult, error) {
	if len(studentIDs) == 0 {
		return nil, apperrors.Validation("studentIds must be a non-empty list")
	}

	result := &models.BulkHardDeleteResult{
		Errors:  []string{},
		Results: make([]models.BulkItemResult, 0, len(studentIDs)),
	}

	for _, id := range studentIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := models.BulkItemResult{StudentID: id}
		deleted, err := s.HardDeleteStudent(ctx, id)
		switch {
		case err == nil:
			item.Success = true
			item.DeletedRecords = deleted.DeletedRecords
			result.DeletedCount++
		case errors.Is(err, apperrors.ErrNotFound):
			item.Error = fmt.Sprintf("Student %s not found", id)
		case errors.Is(err, apperrors.ErrInvalidState), errors.Is(err, apperrors.ErrConflict):
			item.Error = apperrors.Message(err, fmt.Sprintf("Student %s could not be deleted", id))
		default:
			logger.Error().Err(err).Str("studentID", id).Msg("Bulk hard delete failed for student")
			item.Error = fmt.Sprintf("Failed to delete student %s", id)
		}

		if item.Error != "" {
			result.Errors = append(result.Errors, item.Error)
		}
		result.Results = append(result.Results, item)
	}

	logger.Info().Int("requested", len(studentIDs)).Int("deleted", result.DeletedCount).
		Msg("Bulk hard delete finished")
	return result, nil
}

// ListDeletedStudents returns soft-deleted students, most recently deleted first
func (s *LifecycleService) ListDeletedStudents(ctx context.Context, opts repositories.ListOptions) ([]*models.Student, int64, error) {
	return s.repos.StudentRepository.List(ctx, repositories.StudentFilter{State: repositories.DeletedOnly}, opts)
}

// GetDeletedStudent returns a student only while it is soft deleted
func (s *LifecycleService) GetDeletedStudent(ctx context.Context, studentID string) (*models.Student, error) {
	student, err := s.repos.StudentRepository.GetByID(ctx, studentID, repositories.DeletedOnly)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("Deleted student %s not found", studentID)
		}
		return nil, err
	}
	return student, nil
}

// ListDeletedUsers returns soft-deleted users, most recently deleted first
func (s *LifecycleService) ListDeletedUsers(ctx context.Context, opts repositories.ListOptions) ([]*models.User, int64, error) {
	return s.repos.UserRepository.List(ctx, repositories.UserFilter{State: repositories.DeletedOnly}, opts)
}

// ListDeletedClasses returns soft-deleted classes, most recently deleted first
func (s *LifecycleService) ListDeletedClasses(ctx context.Context, opts repositories.ListOptions) ([]*models.Class, int64, error) {
	return s.repos.ClassRepository.List(ctx, repositories.DeletedOnly, opts)
}
