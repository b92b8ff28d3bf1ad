package services

import (
	"context"

	"github.com/counselorhub/counselorhub/internal/app/models"
	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/app/repositories"
	"github.com/counselorhub/counselorhub/internal/pkg/logger"
)

const defaultAcademicStatus = "enrolled"

// StudentService handles student profiles
type StudentService struct {
	studentRepo *repositories.StudentRepository
	userRepo    *repositories.UserRepository
	classRepo   *repositories.ClassRepository
	now         Clock
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo *repositories.StudentRepository,
	userRepo *repositories.UserRepository,
	classRepo *repositories.ClassRepository,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		userRepo:    userRepo,
		classRepo:   classRepo,
		now:         utcNow,
	}
}

// CreateStudent attaches a student profile to an active user, optionally in an active class
func (s *StudentService) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	if err := checkID("Student", req.StudentID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, req.UserID, repositories.ActiveOnly); err != nil {
		return nil, err
	}

	classID, err := s.resolveClass(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}

	status := req.AcademicStatus
	if status == "" {
		status = defaultAcademicStatus
	}

	now := s.now()
	student := &models.Student{
		StudentID:         newID(req.StudentID),
		UserID:            req.UserID,
		ClassID:           classID,
		AcademicStatus:    status,
		Program:           req.Program,
		MentalHealthScore: req.MentalHealthScore,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	logger.Info().Str("studentID", student.StudentID).Str("userID", student.UserID).Msg("Student created")
	return s.studentRepo.GetByID(ctx, student.StudentID, repositories.ActiveOnly)
}

// resolveClass checks that a requested class is active. Nil or empty means no class.
func (s *StudentService) resolveClass(ctx context.Context, classID *string) (*string, error) {
	if classID == nil || *classID == "" {
		return nil, nil
	}
	if _, err := s.classRepo.GetByID(ctx, *classID, repositories.ActiveOnly); err != nil {
		return nil, err
	}
	id := *classID
	return &id, nil
}

// GetStudent returns an active student with the owning user's name, email and username
func (s *StudentService) GetStudent(ctx context.Context, studentID string) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, studentID, repositories.ActiveOnly)
}

// ListStudents returns one page of active students, optionally of one class
func (s *StudentService) ListStudents(ctx context.Context, classID string, opts repositories.ListOptions) ([]*models.Student, int64, error) {
	return s.studentRepo.List(ctx, repositories.StudentFilter{State: repositories.ActiveOnly, ClassID: classID}, opts)
}

// UpdateStudent changes class, academic status, program or score of an active student.
// An empty classId detaches the student from its class.
func (s *StudentService) UpdateStudent(ctx context.Context, studentID string, req *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID, repositories.ActiveOnly)
	if err != nil {
		return nil, err
	}

	if req.ClassID != nil {
		classID, err := s.resolveClass(ctx, req.ClassID)
		if err != nil {
			return nil, err
		}
		student.ClassID = classID
	}
	if req.AcademicStatus != nil {
		student.AcademicStatus = *req.AcademicStatus
	}
	if req.Program != nil {
		student.Program = *req.Program
	}
	if req.MentalHealthScore != nil {
		student.MentalHealthScore = req.MentalHealthScore
	}
	student.UpdatedAt = s.now()

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}
