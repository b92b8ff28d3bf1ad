package dto

import "time"

// CreateCounselingSessionRequest is the body of POST /students/{id}/counseling-sessions
type CreateCounselingSessionRequest struct {
	SessionDate time.Time `json:"sessionDate" binding:"required"`
	SessionType string    `json:"sessionType" binding:"required,max=50"`
	Status      string    `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
	Notes       *string   `json:"notes"`
}

// CreateMentalHealthAssessmentRequest is the body of POST /students/{id}/mental-health-assessments
type CreateMentalHealthAssessmentRequest struct {
	AssessmentDate time.Time `json:"assessmentDate" binding:"required"`
	AssessmentType string    `json:"assessmentType" binding:"required,max=50"`
	Score          *float64  `json:"score" binding:"omitempty,min=0"`
	RiskLevel      string    `json:"riskLevel" binding:"omitempty,oneof=low moderate high critical"`
	Notes          *string   `json:"notes"`
}

// CreateBehaviorRecordRequest is the body of POST /students/{id}/behavior-records
type CreateBehaviorRecordRequest struct {
	IncidentDate time.Time `json:"incidentDate" binding:"required"`
	BehaviorType string    `json:"behaviorType" binding:"required,max=50"`
	Severity     string    `json:"severity" binding:"omitempty,oneof=minor moderate major"`
	Description  *string   `json:"description"`
	ActionTaken  *string   `json:"actionTaken"`
}

// CreateCareerAssessmentRequest is the body of POST /students/{id}/career-assessments
type CreateCareerAssessmentRequest struct {
	AssessmentDate     time.Time `json:"assessmentDate" binding:"required"`
	Interests          *string   `json:"interests"`
	Strengths          *string   `json:"strengths"`
	RecommendedCareers *string   `json:"recommendedCareers"`
	Notes              *string   `json:"notes"`
}
