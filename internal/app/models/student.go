package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	StudentID         string     `json:"studentId" db:"student_id" example:"STU001"`
	UserID            string     `json:"userId" db:"user_id" example:"U001"`
	ClassID           *string    `json:"classId,omitempty" db:"class_id" example:"C10A"`
	AcademicStatus    string     `json:"academicStatus" db:"academic_status" example:"enrolled"`
	Program           string     `json:"program" db:"program" example:"Science"`
	MentalHealthScore *float64   `json:"mentalHealthScore,omitempty" db:"mental_health_score"`
	IsActive          bool       `json:"isActive" db:"is_active"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt         *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`

	// Populated from the owning user row on list and detail reads
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}
