package services

import (
	"context"
	"strings"

	"github.com/counselorhub/counselorhub/internal/app/models"
	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/app/repositories"
	"github.com/counselorhub/counselorhub/internal/pkg/apperrors"
)

// ClassService handles classes
type ClassService struct {
	classRepo *repositories.ClassRepository
	now       Clock
}

// NewClassService creates a new ClassService
func NewClassService(classRepo *repositories.ClassRepository) *ClassService {
	return &ClassService{classRepo: classRepo, now: utcNow}
}

// CreateClass stores a new active class
func (s *ClassService) CreateClass(ctx context.Context, req *dto.CreateClassRequest) (*models.Class, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.Validation("Class name is required")
	}
	if err := checkID("Class", req.ClassID); err != nil {
		return nil, err
	}

	now := s.now()
	class := &models.Class{
		ClassID:      newID(req.ClassID),
		Name:         strings.TrimSpace(req.Name),
		GradeLevel:   req.GradeLevel,
		AcademicYear: req.AcademicYear,
		TeacherName:  req.TeacherName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

// GetClass returns an active class with its active student count
func (s *ClassService) GetClass(ctx context.Context, classID string) (*models.Class, error) {
	return s.classRepo.GetByID(ctx, classID, repositories.ActiveOnly)
}

// ListClasses returns one page of active classes
func (s *ClassService) ListClasses(ctx context.Context, opts repositories.ListOptions) ([]*models.Class, int64, error) {
	return s.classRepo.List(ctx, repositories.ActiveOnly, opts)
}

// UpdateClass changes the descriptive fields of an active class
func (s *ClassService) UpdateClass(ctx context.Context, classID string, req *dto.UpdateClassRequest) (*models.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID, repositories.ActiveOnly)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperrors.Validation("Class name cannot be empty")
		}
		class.Name = strings.TrimSpace(*req.Name)
	}
	if req.GradeLevel != nil {
		class.GradeLevel = *req.GradeLevel
	}
	if req.AcademicYear != nil {
		class.AcademicYear = *req.AcademicYear
	}
	if req.TeacherName != nil {
		class.TeacherName = *req.TeacherName
	}
	class.UpdatedAt = s.now()

	if err := s.classRepo.Update(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}
