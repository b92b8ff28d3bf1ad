package dto

// CreateClassRequest is the body of POST /classes
type CreateClassRequest struct {
	ClassID      string `json:"classId" binding:"omitempty,max=64,entity_id"`
	Name         string `json:"name" binding:"required,not_blank,max=255"`
	GradeLevel   string `json:"gradeLevel" binding:"omitempty,max=50"`
	AcademicYear string `json:"academicYear" binding:"omitempty,max=20"`
	TeacherName  string `json:"teacherName" binding:"omitempty,max=255"`
}

// UpdateClassRequest is the body of PUT /classes/{class_id}
type UpdateClassRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=255"`
	GradeLevel   *string `json:"gradeLevel" binding:"omitempty,max=50"`
	AcademicYear *string `json:"academicYear" binding:"omitempty,max=20"`
	TeacherName  *string `json:"teacherName" binding:"omitempty,max=255"`
}
