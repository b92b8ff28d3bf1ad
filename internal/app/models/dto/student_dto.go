package dto

// CreateStudentRequest is the body of POST /students
type CreateStudentRequest struct {
	StudentID         string   `json:"studentId" binding:"omitempty,max=64,entity_id"`
	UserID            string   `json:"userId" binding:"required,max=64,entity_id"`
	ClassID           *string  `json:"classId" binding:"omitempty,max=64"`
	AcademicStatus    string   `json:"academicStatus" binding:"omitempty,max=50"`
	Program           string   `json:"program" binding:"omitempty,max=255"`
	MentalHealthScore *float64 `json:"mentalHealthScore" binding:"omitempty,min=0,max=100"`
}

// UpdateStudentRequest is the body of PUT /students/{student_id}
type UpdateStudentRequest struct {
	ClassID           *string  `json:"classId" binding:"omitempty,max=64"`
	AcademicStatus    *string  `json:"academicStatus" binding:"omitempty,max=50"`
	Program           *string  `json:"program" binding:"omitempty,max=255"`
	MentalHealthScore *float64 `json:"mentalHealthScore" binding:"omitempty,min=0,max=100"`
}
