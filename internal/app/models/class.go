package models

import "time"

// Class defines a school class. StudentCount is derived from active students on read.
type Class struct {
	ClassID      string     `json:"classId" db:"class_id" example:"C10A"`
	Name         string     `json:"name" db:"name" example:"10-A"`
	GradeLevel   string     `json:"gradeLevel" db:"grade_level" example:"10"`
	AcademicYear string     `json:"academicYear" db:"academic_year" example:"2025/2026"`
	TeacherName  string     `json:"teacherName" db:"teacher_name" example:"Mr. Smith"`
	StudentCount int        `json:"studentCount"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}
