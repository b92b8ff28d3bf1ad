package models

import "time"

// RecordBase holds the columns shared by every student-owned record
type RecordBase struct {
	ID         string     `json:"id" db:"id"`
	StudentID  string     `json:"studentId" db:"student_id"`
	RecordedBy *string    `json:"recordedBy,omitempty" db:"recorded_by"`
	IsActive   bool       `json:"isActive" db:"is_active"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// CounselingSession is a meeting between a counselor and a student
type CounselingSession struct {
	RecordBase
	SessionDate time.Time `json:"sessionDate" db:"session_date"`
	SessionType string    `json:"sessionType" db:"session_type" example:"individual"`
	Status      string    `json:"status" db:"status" example:"completed"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`
}

// MentalHealthAssessment is a scored screening of a student
type MentalHealthAssessment struct {
	RecordBase
	AssessmentDate time.Time `json:"assessmentDate" db:"assessment_date"`
	AssessmentType string    `json:"assessmentType" db:"assessment_type" example:"PHQ-9"`
	Score          *float64  `json:"score,omitempty" db:"score"`
	RiskLevel      string    `json:"riskLevel" db:"risk_level" example:"low"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`
}

// BehaviorRecord is a logged incident
type BehaviorRecord struct {
	RecordBase
	IncidentDate time.Time `json:"incidentDate" db:"incident_date"`
	BehaviorType string    `json:"behaviorType" db:"behavior_type" example:"tardiness"`
	Severity     string    `json:"severity" db:"severity" example:"minor"`
	Description  *string   `json:"description,omitempty" db:"description"`
	ActionTaken  *string   `json:"actionTaken,omitempty" db:"action_taken"`
}

// CareerAssessment captures interests and recommended careers
type CareerAssessment struct {
	RecordBase
	AssessmentDate     time.Time `json:"assessmentDate" db:"assessment_date"`
	Interests          *string   `json:"interests,omitempty" db:"interests"`
	Strengths          *string   `json:"strengths,omitempty" db:"strengths"`
	RecommendedCareers *string   `json:"recommendedCareers,omitempty" db:"recommended_careers"`
	Notes              *string   `json:"notes,omitempty" db:"notes"`
}
