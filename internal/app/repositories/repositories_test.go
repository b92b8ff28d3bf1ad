package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counselorhub/counselorhub/internal/app/models"
	"github.com/counselorhub/counselorhub/internal/db"
	"github.com/counselorhub/counselorhub/internal/pkg/apperrors"
	"github.com/counselorhub/counselorhub/internal/testutil"
)

var testNow = time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*db.Database, *Repositories) {
	t.Helper()
	database := testutil.NewDatabase(t)
	return database, NewRepositories(database)
}

func createUser(t *testing.T, repos *Repositories, id string) *models.User {
	t.Helper()
	user := &models.User{
		UserID:       id,
		Name:         "User " + id,
		Email:        id + "@school.edu",
		Username:     id,
		Role:         models.RoleStudent,
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
	require.NoError(t, repos.UserRepository.Create(context.Background(), user))
	return user
}

func createClass(t *testing.T, repos *Repositories, id string) *models.Class {
	t.Helper()
	class := &models.Class{
		ClassID:   id,
		Name:      "Class " + id,
		IsActive:  true,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	require.NoError(t, repos.ClassRepository.Create(context.Background(), class))
	return class
}

func createStudent(t *testing.T, repos *Repositories, id, userID string, classID *string) *models.Student {
	t.Helper()
	student := &models.Student{
		StudentID:      id,
		UserID:         userID,
		ClassID:        classID,
		AcademicStatus: "enrolled",
		IsActive:       true,
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	}
	require.NoError(t, repos.StudentRepository.Create(context.Background(), student))
	return student
}

func newRecordBase(studentID string) models.RecordBase {
	return models.RecordBase{
		ID:        uuid.NewString(),
		StudentID: studentID,
		IsActive:  true,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func TestUserRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	_, repos := setup(t)

	createUser(t, repos, "U001")

	err := repos.UserRepository.Create(ctx, &models.User{
		UserID: "U002", Name: "Dup", Email: "other@school.edu", Username: "U001",
		Role: models.RoleCounselor, PasswordHash: "x", IsActive: true, CreatedAt: testNow, UpdatedAt: testNow,
	})
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	got, err := repos.UserRepository.GetByID(ctx, "U001", ActiveOnly)
	require.NoError(t, err)
	assert.Equal(t, "User U001", got.Name)
	assert.True(t, got.IsActive)
	assert.Nil(t, got.DeletedAt)

	byLogin, err := repos.UserRepository.GetByLogin(ctx, "", "U001@school.edu")
	require.NoError(t, err)
	assert.Equal(t, "U001", byLogin.UserID)

	got.Name = "Renamed"
	got.UpdatedAt = testNow.Add(time.Hour)
	require.NoError(t, repos.UserRepository.Update(ctx, got))

	got, err = repos.UserRepository.GetByID(ctx, "U001", ActiveOnly)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	_, err = repos.UserRepository.GetByID(ctx, "missing", AnyState)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestUserRepositorySoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	_, repos := setup(t)
	createUser(t, repos, "U001")

	deletedAt := testNow.Add(time.Minute)
	require.NoError(t, repos.UserRepository.SoftDelete(ctx, "U001", deletedAt))

	_, err := repos.UserRepository.GetByID(ctx, "U001", ActiveOnly)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	deleted, err := repos.UserRepository.GetByID(ctx, "U001", DeletedOnly)
	require.NoError(t, err)
	assert.False(t, deleted.IsActive)
	require.NotNil(t, deleted.DeletedAt)
	assert.True(t, deletedAt.Equal(*deleted.DeletedAt))

	// a second soft delete finds no active row
	err = repos.UserRepository.SoftDelete(ctx, "U001", deletedAt)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	require.NoError(t, repos.UserRepository.Restore(ctx, "U001", testNow.Add(2*time.Minute)))
	restored, err := repos.UserRepository.GetByID(ctx, "U001", ActiveOnly)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
}

func TestUserRepositoryListFilters(t *testing.T) {
	ctx := context.Background()
	_, repos := setup(t)

	createUser(t, repos, "U001")
	createUser(t, repos, "U002")
	createUser(t, repos, "U003")
	require.NoError(t, repos.UserRepository.SoftDelete(ctx, "U002", testNow.Add(time.Minute)))

	active, total, err := repos.UserRepository.List(ctx, UserFilter{State: ActiveOnly}, ListOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, active, 2)

	page, total, err := repos.UserRepository.List(ctx, UserFilter{State: ActiveOnly}, ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, page, 1)
	assert.Equal(t, "U003", page[0].UserID)

	deleted, _, err := repos.UserRepository.List(ctx, UserFilter{State: DeletedOnly}, ListOptions{})
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, "U002", deleted[0].UserID)

	none, total, err := repos.UserRepository.List(ctx, UserFilter{State: ActiveOnly, Role: models.RoleAdmin}, ListOptions{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func TestClassRepositoryStudentCount(t *testing.T) {
	ctx := context.Background()
	_, repos := setup(t)

	class := createClass(t, repos, "C10A")
	createUser(t, repos, "U001")
	createUser(t, repos, "U002")
	createStudent(t, repos, "STU001", "U001", &class.ClassID)
	createStudent(t, repos, "STU002", "U002", &class.ClassID)
	require.NoError(t, repos.StudentRepository.SoftDelete(ctx, "STU002", testNow.Add(time.Minute)))

	got, err := repos.ClassRepository.GetByID(ctx, "C10A", ActiveOnly)
	require.NoError(t, err)
	assert.Equal(t, 1, got.StudentCount)

	refs, err := repos.StudentRepository.CountByClass(ctx, "C10A")
	require.NoError(t, err)
	assert.EqualValues(t, 2, refs)

	// referenced rows block the delete at the database level too
	err = repos.ClassRepository.Delete(ctx, "C10A")
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestClassRepositoryDeletedListOrder(t *testing.T) {
	ctx := context.Background()
	_, repos := setup(t)

	createClass(t, repos, "C1")
	createClass(t, repos, "C2")
	createClass(t, repos, "C3")
	require.NoError(t, repos.ClassRepository.SoftDelete(ctx, "C1", testNow.Add(time.Minute)))
	require.NoError(t, repos.ClassRepository.SoftDelete(ctx, "C2", testNow.Add(2*time.Minute)))

	deleted, total, err := repos.ClassRepository.List(ctx, DeletedOnly, ListOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, deleted, 2)
	assert.Equal(t, "C2", deleted[0].ClassID)
	assert.Equal(t, "C1", deleted[1].ClassID)
}

func TestStudentRepositoryJoinsUser(t *testing.T) {
	ctx := context.Background()
	_, repos := setup(t)

	createUser(t, repos, "U001")
	createStudent(t, repos, "STU001", "U001", nil)

	got, err := repos.StudentRepository.GetByID(ctx, "STU001", ActiveOnly)
	require.NoError(t, err)
	assert.Equal(t, "User U001", got.Name)
	assert.Equal(t, "U001@school.edu", got.Email)
	assert.Equal(t, "U001", got.Username)
	assert.Nil(t, got.ClassID)
	assert.Nil(t, got.MentalHealthScore)

	// one student row per user
	err = repos.StudentRepository.Create(ctx, &models.Student{
		StudentID: "STU002", UserID: "U001", IsActive: true, CreatedAt: testNow, UpdatedAt: testNow,
	})
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	// the user must exist
	err = repos.StudentRepository.Create(ctx, &models.Student{
		StudentID: "STU003", UserID: "nobody", IsActive: true, CreatedAt: testNow, UpdatedAt: testNow,
	})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestStudentRepositoryListByClass(t *testing.T) {
	ctx := context.Background()
	_, repos := setup(t)

	a := createClass(t, repos, "CA")
	b := createClass(t, repos, "CB")
	createUser(t, repos, "U001")
	createUser(t, repos, "U002")
	createStudent(t, repos, "STU001", "U001", &a.ClassID)
	createStudent(t, repos, "STU002", "U002", &b.ClassID)

	students, total, err := repos.StudentRepository.List(ctx, StudentFilter{State: ActiveOnly, ClassID: "CB"}, ListOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, students, 1)
	assert.Equal(t, "STU002", students[0].StudentID)
	require.NotNil(t, students[0].ClassID)
	assert.Equal(t, "CB", *students[0].ClassID)
}

func TestRecordRepositoryCascade(t *testing.T) {
	ctx := context.Background()
	_, repos := setup(t)

	createUser(t, repos, "U001")
	createStudent(t, repos, "STU001", "U001", nil)

	notes := "first meeting"
	score := 12.5
	require.NoError(t, repos.RecordRepository.CreateCounselingSession(ctx, &models.CounselingSession{
		RecordBase: newRecordBase("STU001"), SessionDate: testNow, SessionType: "individual", Status: "completed", Notes: &notes,
	}))
	require.NoError(t, repos.RecordRepository.CreateCounselingSession(ctx, &models.CounselingSession{
		RecordBase: newRecordBase("STU001"), SessionDate: testNow.Add(time.Hour), SessionType: "group", Status: "scheduled",
	}))
	require.NoError(t, repos.RecordRepository.CreateMentalHealthAssessment(ctx, &models.MentalHealthAssessment{
		RecordBase: newRecordBase("STU001"), AssessmentDate: testNow, AssessmentType: "PHQ-9", Score: &score, RiskLevel: "moderate",
	}))
	require.NoError(t, repos.RecordRepository.CreateBehaviorRecord(ctx, &models.BehaviorRecord{
		RecordBase: newRecordBase("STU001"), IncidentDate: testNow, BehaviorType: "tardiness", Severity: "minor",
	}))
	require.NoError(t, repos.RecordRepository.CreateCareerAssessment(ctx, &models.CareerAssessment{
		RecordBase: newRecordBase("STU001"), AssessmentDate: testNow,
	}))

	sessions, err := repos.RecordRepository.ListCounselingSessions(ctx, "STU001")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "group", sessions[0].SessionType)
	require.NotNil(t, sessions[1].Notes)
	assert.Equal(t, notes, *sessions[1].Notes)

	assessments, err := repos.RecordRepository.ListMentalHealthAssessments(ctx, "STU001")
	require.NoError(t, err)
	require.Len(t, assessments, 1)
	require.NotNil(t, assessments[0].Score)
	assert.InDelta(t, score, *assessments[0].Score, 0.001)

	tables, err := repos.DependentsRepository.ExistingTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StudentDependentTables, tables)

	counts, err := repos.DependentsRepository.CountAllForStudent(ctx, tables, "STU001")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		models.TableCounselingSessions:      2,
		models.TableMentalHealthAssessments: 1,
		models.TableBehaviorRecords:         1,
		models.TableCareerAssessments:       1,
	}, counts)

	require.NoError(t, repos.StudentRepository.Delete(ctx, "STU001"))

	counts, err = repos.DependentsRepository.CountAllForStudent(ctx, tables, "STU001")
	require.NoError(t, err)
	for table, n := range counts {
		assert.Zerof(t, n, "rows left in %s", table)
	}

	_, err = repos.UserRepository.GetByID(ctx, "U001", ActiveOnly)
	assert.NoError(t, err)
}

func TestRecordRepositoryUnknownStudent(t *testing.T) {
	_, repos := setup(t)

	err := repos.RecordRepository.CreateBehaviorRecord(context.Background(), &models.BehaviorRecord{
		RecordBase: newRecordBase("ghost"), IncidentDate: testNow, BehaviorType: "other", Severity: "minor",
	})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestRepositoriesWithTxRollback(t *testing.T) {
	ctx := context.Background()
	database, repos := setup(t)
	createUser(t, repos, "U001")

	rollback := errors.New("rollback")
	err := database.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		require.NoError(t, repos.UserRepository.WithTx(tx).SoftDelete(ctx, "U001", testNow))
		return rollback
	})
	assert.ErrorIs(t, err, rollback)

	got, err := repos.UserRepository.GetByID(ctx, "U001", ActiveOnly)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}
