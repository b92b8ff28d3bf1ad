package services

import (
	"context"

	"github.com/counselorhub/counselorhub/internal/app/models"
	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/app/repositories"
)

// Defaults applied when a create request leaves the field empty
const (
	defaultSessionStatus = "scheduled"
	defaultRiskLevel     = "low"
	defaultSeverity      = "minor"
)

// RecordService handles the four kinds of student-owned records
type RecordService struct {
	recordRepo  *repositories.RecordRepository
	studentRepo *repositories.StudentRepository
	now         Clock
}

// NewRecordService creates a new RecordService
func NewRecordService(recordRepo *repositories.RecordRepository, studentRepo *repositories.StudentRepository) *RecordService {
	return &RecordService{recordRepo: recordRepo, studentRepo: studentRepo, now: utcNow}
}

// newBase checks the student is active and builds the shared record columns
func (s *RecordService) newBase(ctx context.Context, studentID, recordedBy string) (models.RecordBase, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID, repositories.ActiveOnly); err != nil {
		return models.RecordBase{}, err
	}

	now := s.now()
	base := models.RecordBase{
		ID:        newID(""),
		StudentID: studentID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if recordedBy != "" {
		base.RecordedBy = &recordedBy
	}
	return base, nil
}

// requireStudent lets record lists reach soft-deleted students by direct id
func (s *RecordService) requireStudent(ctx context.Context, studentID string) error {
	_, err := s.studentRepo.GetByID(ctx, studentID, repositories.AnyState)
	return err
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// CreateCounselingSession records a counseling session for an active student
func (s *RecordService) CreateCounselingSession(ctx context.Context, studentID, recordedBy string, req *dto.CreateCounselingSessionRequest) (*models.CounselingSession, error) {
	base, err := s.newBase(ctx, studentID, recordedBy)
	if err != nil {
		return nil, err
	}

	session := &models.CounselingSession{
		RecordBase:  base,
		SessionDate: req.SessionDate.UTC(),
		SessionType: req.SessionType,
		Status:      orDefault(req.Status, defaultSessionStatus),
		Notes:       req.Notes,
	}
	if err := s.recordRepo.CreateCounselingSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListCounselingSessions returns the counseling sessions of a student in any state
func (s *RecordService) ListCounselingSessions(ctx context.Context, studentID string) ([]*models.CounselingSession, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	return s.recordRepo.ListCounselingSessions(ctx, studentID)
}

// CreateMentalHealthAssessment records an assessment for an active student
func (s *RecordService) CreateMentalHealthAssessment(ctx context.Context, studentID, recordedBy string, req *dto.CreateMentalHealthAssessmentRequest) (*models.MentalHealthAssessment, error) {
	base, err := s.newBase(ctx, studentID, recordedBy)
	if err != nil {
		return nil, err
	}

	assessment := &models.MentalHealthAssessment{
		RecordBase:     base,
		AssessmentDate: req.AssessmentDate.UTC(),
		AssessmentType: req.AssessmentType,
		Score:          req.Score,
		RiskLevel:      orDefault(req.RiskLevel, defaultRiskLevel),
		Notes:          req.Notes,
	}
	if err := s.recordRepo.CreateMentalHealthAssessment(ctx, assessment); err != nil {
		return nil, err
	}
	return assessment, nil
}

// ListMentalHealthAssessments returns the mental health assessments of a student in any state
func (s *RecordService) ListMentalHealthAssessments(ctx context.Context, studentID string) ([]*models.MentalHealthAssessment, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	return s.recordRepo.ListMentalHealthAssessments(ctx, studentID)
}

// CreateBehaviorRecord records an incident for an active student
func (s *RecordService) CreateBehaviorRecord(ctx context.Context, studentID, recordedBy string, req *dto.CreateBehaviorRecordRequest) (*models.BehaviorRecord, error) {
	base, err := s.newBase(ctx, studentID, recordedBy)
	if err != nil {
		return nil, err
	}

	record := &models.BehaviorRecord{
		RecordBase:   base,
		IncidentDate: req.IncidentDate.UTC(),
		BehaviorType: req.BehaviorType,
		Severity:     orDefault(req.Severity, defaultSeverity),
		Description:  req.Description,
		ActionTaken:  req.ActionTaken,
	}
	if err := s.recordRepo.CreateBehaviorRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListBehaviorRecords returns the behavior records of a student in any state
func (s *RecordService) ListBehaviorRecords(ctx context.Context, studentID string) ([]*models.BehaviorRecord, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	return s.recordRepo.ListBehaviorRecords(ctx, studentID)
}

// CreateCareerAssessment records a career assessment for an active student
func (s *RecordService) CreateCareerAssessment(ctx context.Context, studentID, recordedBy string, req *dto.CreateCareerAssessmentRequest) (*models.CareerAssessment, error) {
	base, err := s.newBase(ctx, studentID, recordedBy)
	if err != nil {
		return nil, err
	}

	assessment := &models.CareerAssessment{
		RecordBase:         base,
		AssessmentDate:     req.AssessmentDate.UTC(),
		Interests:          req.Interests,
		Strengths:          req.Strengths,
		RecommendedCareers: req.RecommendedCareers,
		Notes:              req.Notes,
	}
	if err := s.recordRepo.CreateCareerAssessment(ctx, assessment); err != nil {
		return nil, err
	}
	return assessment, nil
}

// ListCareerAssessments returns the career assessments of a student in any state
func (s *RecordService) ListCareerAssessments(ctx context.Context, studentID string) ([]*models.CareerAssessment, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	return s.recordRepo.ListCareerAssessments(ctx, studentID)
}
