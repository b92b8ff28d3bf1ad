package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counselorhub/counselorhub/internal/app/models"
	"github.com/counselorhub/counselorhub/internal/app/repositories"
	"github.com/counselorhub/counselorhub/internal/pkg/apperrors"
)

func studentIDs(students []*models.Student) []string {
	ids := make([]string, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.StudentID)
	}
	return ids
}

func TestSoftDeleteStudentMovesBetweenViews(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, LifecycleOptions{})
	student := env.student(t, "STU001", nil)
	env.student(t, "STU002", nil)

	require.NoError(t, env.svc.LifecycleService.SoftDeleteStudent(ctx, "STU001"))

	active, total, err := env.svc.StudentService.ListStudents(ctx, "", repositories.ListOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"STU002"}, studentIDs(active))

	deleted, _, err := env.svc.LifecycleService.ListDeletedStudents(ctx, repositories.ListOptions{})
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, "STU001", deleted[0].StudentID)
	assert.Equal(t, "Name "+student.UserID, deleted[0].Name)
	assert.NotNil(t, deleted[0].DeletedAt)

	_, err = env.svc.StudentService.GetStudent(ctx, "STU001")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	got, err := env.svc.LifecycleService.GetDeletedStudent(ctx, "STU001")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = env.svc.LifecycleService.GetDeletedStudent(ctx, "STU002")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	// the linked user is untouched
	user, err := env.svc.UserService.GetUser(ctx, student.UserID)
	require.NoError(t, err)
	assert.True(t, user.IsActive)
}

func TestSoftDeleteTwiceIsNotFound(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, LifecycleOptions{})
	env.student(t, "STU001", nil)

	require.NoError(t, env.svc.LifecycleService.SoftDeleteStudent(ctx, "STU001"))
	err := env.svc.LifecycleService.SoftDeleteStudent(ctx, "STU001")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	err = env.svc.LifecycleService.SoftDeleteStudent(ctx, "ghost")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestSoftDeleteUserLeavesStudent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, LifecycleOptions{})
	student := env.student(t, "STU001", nil)

	require.NoError(t, env.svc.LifecycleService.SoftDeleteUser(ctx, student.UserID))

	got, err := env.svc.StudentService.GetStudent(ctx, "STU001")
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	deletedUsers, total, err := env.svc.LifecycleService.ListDeletedUsers(ctx, repositories.ListOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, student.UserID, deletedUsers[0].UserID)
}

func TestRestoreStudentAlsoRestoresUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, LifecycleOptions{})
	student := env.student(t, "STU001", nil)

	require.NoError(t, env.svc.LifecycleService.SoftDeleteUser(ctx, student.UserID))
	require.NoError(t, env.svc.LifecycleService.SoftDeleteStudent(ctx, "STU001"))

	restored, err := env.svc.LifecycleService.RestoreStudent(ctx, "STU001")
	require.NoError(t, err)
	assert.True(t, restored.IsActive)
	assert.Nil(t, restored.DeletedAt)

	active, _, err := env.svc.StudentService.ListStudents(ctx, "", repositories.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"STU001"}, studentIDs(active))

	user, err := env.svc.UserService.GetUser(ctx, student.UserID)
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.Nil(t, user.DeletedAt)
}

func TestRestoreActiveIsInvalidState(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, LifecycleOptions{})
	student := env.student(t, "STU001", nil)
	env.class(t, "C1")

	_, err := env.svc.LifecycleService.RestoreStudent(ctx, "STU001")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidState))
	assert.Equal(t, "Student STU001 is already active", apperrors.Message(err, ""))

	_, err = env.svc.LifecycleService.RestoreUser(ctx, student.UserID)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidState))

	_, err = env.svc.LifecycleService.RestoreClass(ctx, "C1")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidState))

	_, err = env.svc.LifecycleService.RestoreStudent(ctx, "ghost")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestRestoreUserAndClass(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, LifecycleOptions{})
	user := env.user(t, "U001", models.RoleCounselor)
	env.class(t, "C1")

	require.NoError(t, env.svc.LifecycleService.SoftDeleteUser(ctx, user.UserID))
	require.NoError(t, env.svc.LifecycleService.SoftDeleteClass(ctx, "C1"))

	restoredUser, err := env.svc.LifecycleService.RestoreUser(ctx, user.UserID)
	require.NoError(t, err)
	assert.True(t, restoredUser.IsActive)

	restoredClass, err := env.svc.LifecycleService.RestoreClass(ctx, "C1")
	require.NoError(t, err)
	assert.True(t, restoredClass.IsActive)
	assert.Nil(t, restoredClass.DeletedAt)
}

func TestHardDeleteStudentCascades(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, LifecycleOptions{})
	student := env.student(t, "STU001", nil)
	env.records(t, "STU001")
	env.student(t, "STU002", nil)
	env.records(t, "STU002")

	result, err := env.svc.LifecycleService.HardDeleteStudent(ctx, "STU001")
	require.NoError(t, err)
	assert.Equal(t, "STU001", result.StudentID)
	assert.Equal(t, student.UserID, result.UserID)
	assert.True(t, result.UserPreserved)
	assert.Equal(t, map[string]int64{
		models.TableCounselingSessions:      2,
		models.TableMentalHealthAssessments: 1,
		models.TableBehaviorRecords:         1,
		models.TableCareerAssessments:       1,
	}, result.DeletedRecords)

	counts, err := env.repos.DependentsRepository.CountAllForStudent(ctx, models.StudentDependentTables, "STU001")
	require.NoError(t, err)
	for table, n := range counts {
		assert.Zerof(t, n, "orphans in %s", table)
	}

	// other students keep their records
	others, err := env.repos.DependentsRepository.CountForStudent(ctx, models.TableCounselingSessions, "STU002")
	require.NoError(t, err)
	assert.EqualValues(t, 2, others)

	_, err = env.repos.StudentRepository.GetByID(ctx, "STU001", repositories.AnyState)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	user, err := env.svc.UserService.GetUser(ctx, student.UserID)
	require.NoError(t, err)
	assert.Equal(t, student.UserID, user.UserID)
}

func TestHardDeleteSoftDeletedStudent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, LifecycleOptions{RequireSoftDelete: true})
	env.student(t, "STU001", nil)

	_, err := env.svc.LifecycleService.HardDeleteStudent(ctx, "STU001")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidState))

	require.NoError(t, env.svc.LifecycleService.SoftDeleteStudent(ctx, "STU001"))
	result, err := env.svc.LifecycleService.HardDeleteStudent(ctx, "STU001")
	require.NoError(t, err)
	assert.Len(t, result.DeletedRecords, len(models.StudentDependentTables))

	_, err = env.svc.LifecycleService.HardDeleteStudent(ctx, "STU001")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestHardDeleteSkipsMissingDependentTable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, LifecycleOptions{})
	env.student(t, "STU001", nil)
	env.records(t, "STU001")

	_, err := env.database.DB.ExecContext(ctx, "DROP TABLE "+models.TableCareerAssessments)
	require.NoError(t, err)

	result, err := env.svc.LifecycleService.HardDeleteStudent(ctx, "STU001")
	require.NoError(t, err)
	assert.NotContains(t, result.DeletedRecords, models.TableCareerAssessments)
	assert.EqualValues(t, 2, result.DeletedRecords[models.TableCounselingSessions])
}

func TestHardDeleteRollsBackWhenCascadeIsOff(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, LifecycleOptions{})
	env.student(t, "STU001", nil)
	env.records(t, "STU001")

	// the test pool holds a single connection, so the pragma applies to every later statement
	_, err := env.database.DB.ExecContext(ctx, "PRAGMA foreign_keys = OFF")
	require.NoError(t, err)

	_, err = env.svc.LifecycleService.HardDeleteStudent(ctx, "STU001")
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))

	got, err := env.repos.StudentRepository.GetByID(ctx, "STU001", repositories.AnyState)
	require.NoError(t, err)
	assert.Equal(t, "STU001", got.StudentID)
}

func TestHardDeleteClass(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, LifecycleOptions{})
	env.class(t, "C1")
	env.class(t, "C2")
	env.student(t, "STU001", strPtr("C1"))
	require.NoError(t, env.svc.LifecycleService.SoftDeleteStudent(ctx, "STU001"))

	// a soft-deleted student still references the class
	err := env.svc.LifecycleService.HardDeleteClass(ctx, "C1")
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.EqualValues(t, 1, apperrors.DetailsOf(err)["studentCount"])

	require.NoError(t, env.svc.LifecycleService.HardDeleteClass(ctx, "C2"))
	_, err = env.repos.ClassRepository.GetByID(ctx, "C2", repositories.AnyState)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	err = env.svc.LifecycleService.HardDeleteClass(ctx, "C2")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestBulkHardDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, LifecycleOptions{})
	env.student(t, "valid1", nil)
	env.records(t, "valid1")
	env.student(t, "valid2", nil)

	result, err := env.svc.LifecycleService.BulkHardDeleteStudents(ctx, []string{"valid1", "nonexistent", "valid2"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.DeletedCount)
	assert.Equal(t, []string{"Student nonexistent not found"}, result.Errors)
	require.Len(t, result.Results, 3)
	assert.True(t, result.Results[0].Success)
	assert.EqualValues(t, 2, result.Results[0].DeletedRecords[models.TableCounselingSessions])
	assert.False(t, result.Results[1].Success)
	assert.True(t, result.Results[2].Success)

	_, err = env.svc.LifecycleService.BulkHardDeleteStudents(ctx, nil)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
}

func TestDeletedListsOrderedByDeletedAt(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, LifecycleOptions{})
	env.student(t, "STU001", nil)
	env.student(t, "STU002", nil)
	env.student(t, "STU003", nil)
	env.class(t, "C1")
	env.class(t, "C2")

	for _, id := range []string{"STU002", "STU001", "STU003"} {
		require.NoError(t, env.svc.LifecycleService.SoftDeleteStudent(ctx, id))
	}
	require.NoError(t, env.svc.LifecycleService.SoftDeleteClass(ctx, "C1"))
	require.NoError(t, env.svc.LifecycleService.SoftDeleteClass(ctx, "C2"))

	deleted, total, err := env.svc.LifecycleService.ListDeletedStudents(ctx, repositories.ListOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"STU003", "STU001", "STU002"}, studentIDs(deleted))

	classes, _, err := env.svc.LifecycleService.ListDeletedClasses(ctx, repositories.ListOptions{})
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "C2", classes[0].ClassID)
}
