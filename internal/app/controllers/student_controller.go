package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/app/services"
	"github.com/counselorhub/counselorhub/internal/middleware"
)

// StudentController handles student endpoints
type StudentController struct {
	studentService   *services.StudentService
	lifecycleService *services.LifecycleService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, lifecycleService *services.LifecycleService) *StudentController {
	return &StudentController{studentService: studentService, lifecycleService: lifecycleService}
}

// ListStudents lists active students, optionally of one class via ?class_id=
func (c *StudentController) ListStudents(ctx *gin.Context) {
	page, opts := pageParams(ctx)

	students, total, err := c.studentService.ListStudents(ctx.Request.Context(), ctx.Query("class_id"), opts)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, students, total, page, "")
}

// CreateStudent attaches a student profile to an existing user
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.CreateStudent(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(student, "Student created successfully"))
}

func (c *StudentController) GetStudent(ctx *gin.Context) {
	student, err := c.studentService.GetStudent(ctx.Request.Context(), ctx.Param("student_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student, ""))
}

func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.UpdateStudent(ctx.Request.Context(), ctx.Param("student_id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student, "Student updated successfully"))
}

// DeleteStudent soft deletes a student; the linked user stays active
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id := ctx.Param("student_id")
	if err := c.lifecycleService.SoftDeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{"studentId": id}, "Student deleted successfully"))
}
