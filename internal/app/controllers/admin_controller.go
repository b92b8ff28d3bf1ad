package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/app/services"
	"github.com/counselorhub/counselorhub/internal/middleware"
)

// AdminController exposes the deleted views, restore and permanent delete
type AdminController struct {
	lifecycleService *services.LifecycleService
}

// NewAdminController creates a new AdminController
func NewAdminController(lifecycleService *services.LifecycleService) *AdminController {
	return &AdminController{lifecycleService: lifecycleService}
}

// ListDeletedStudents lists soft-deleted students, most recently deleted first
// @Summary List deleted students
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /admin/students/deleted [get]
func (c *AdminController) ListDeletedStudents(ctx *gin.Context) {
	page, opts := pageParams(ctx)

	students, total, err := c.lifecycleService.ListDeletedStudents(ctx.Request.Context(), opts)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, students, total, page, "")
}

// GetDeletedStudent returns one soft-deleted student
// @Summary Get a deleted student
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param student_id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Not found or not deleted"
// @Router /admin/students/deleted/{student_id} [get]
func (c *AdminController) GetDeletedStudent(ctx *gin.Context) {
	student, err := c.lifecycleService.GetDeletedStudent(ctx.Request.Context(), ctx.Param("student_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student, ""))
}

// RestoreStudent reactivates a soft-deleted student and its user
// @Summary Restore a student
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param student_id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse "Already active"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /admin/students/{student_id}/restore [put]
func (c *AdminController) RestoreStudent(ctx *gin.Context) {
	student, err := c.lifecycleService.RestoreStudent(ctx.Request.Context(), ctx.Param("student_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student, "Student restored successfully"))
}

// HardDeleteStudent permanently deletes a student and its records
// @Summary Permanently delete a student
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param student_id path string true "Student ID"
// @Success 200 {object} dto.HardDeleteStudentResponse
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /admin/students/{student_id}/hard-delete [delete]
func (c *AdminController) HardDeleteStudent(ctx *gin.Context) {
	id := ctx.Param("student_id")
	result, err := c.lifecycleService.HardDeleteStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.HardDeleteStudentResponse{
		Success: true,
		Message: fmt.Sprintf("Student %s permanently deleted", id),
		Warning: dto.HardDeleteWarning,
		Details: result,
	})
}

// BulkHardDeleteStudents permanently deletes several students, each on its own
// @Summary Permanently delete several students
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkHardDeleteRequest true "Student IDs"
// @Success 200 {object} dto.BulkHardDeleteResponse
// @Failure 400 {object} dto.ErrorResponse "Empty list"
// @Router /admin/students/bulk-hard-delete [delete]
func (c *AdminController) BulkHardDeleteStudents(ctx *gin.Context) {
	var req dto.BulkHardDeleteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.lifecycleService.BulkHardDeleteStudents(ctx.Request.Context(), req.StudentIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.BulkHardDeleteResponse{
		Success:      true,
		Message:      fmt.Sprintf("%d of %d students permanently deleted", result.DeletedCount, len(req.StudentIDs)),
		Warning:      dto.HardDeleteWarning,
		DeletedCount: result.DeletedCount,
		Errors:       result.Errors,
		Results:      result.Results,
	})
}

// @Summary List deleted users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /admin/users/deleted [get]
func (c *AdminController) ListDeletedUsers(ctx *gin.Context) {
	page, opts := pageParams(ctx)

	users, total, err := c.lifecycleService.ListDeletedUsers(ctx.Request.Context(), opts)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, users, total, page, "")
}

// @Summary Restore a user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 400 {object} dto.ErrorResponse "Already active"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /admin/users/{user_id}/restore [put]
func (c *AdminController) RestoreUser(ctx *gin.Context) {
	user, err := c.lifecycleService.RestoreUser(ctx.Request.Context(), ctx.Param("user_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user, "User restored successfully"))
}

// @Summary List deleted classes
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /admin/classes/deleted [get]
func (c *AdminController) ListDeletedClasses(ctx *gin.Context) {
	page, opts := pageParams(ctx)

	classes, total, err := c.lifecycleService.ListDeletedClasses(ctx.Request.Context(), opts)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, classes, total, page, "")
}

// @Summary Restore a class
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param class_id path string true "Class ID"
// @Success 200 {object} dto.APIResponse{data=models.Class}
// @Failure 400 {object} dto.ErrorResponse "Already active"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /admin/classes/{class_id}/restore [put]
func (c *AdminController) RestoreClass(ctx *gin.Context) {
	class, err := c.lifecycleService.RestoreClass(ctx.Request.Context(), ctx.Param("class_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(class, "Class restored successfully"))
}

// HardDeleteClass permanently deletes a class that no student references
// @Summary Permanently delete a class
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param class_id path string true "Class ID"
// @Success 200 {object} dto.HardDeleteClassResponse
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Failure 409 {object} dto.ErrorResponse "Still referenced by students"
// @Router /admin/classes/{class_id}/hard-delete [delete]
func (c *AdminController) HardDeleteClass(ctx *gin.Context) {
	id := ctx.Param("class_id")
	if err := c.lifecycleService.HardDeleteClass(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.HardDeleteClassResponse{
		Success: true,
		Message: fmt.Sprintf("Class %s permanently deleted", id),
		Warning: dto.HardDeleteWarning,
		ClassID: id,
	})
}
