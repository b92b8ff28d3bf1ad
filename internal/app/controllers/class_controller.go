package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/app/services"
	"github.com/counselorhub/counselorhub/internal/middleware"
)

// ClassController handles class endpoints
type ClassController struct {
	classService     *services.ClassService
	lifecycleService *services.LifecycleService
}

// NewClassController creates a new ClassController
func NewClassController(classService *services.ClassService, lifecycleService *services.LifecycleService) *ClassController {
	return &ClassController{classService: classService, lifecycleService: lifecycleService}
}

// ListClasses lists active classes with their active student counts
func (c *ClassController) ListClasses(ctx *gin.Context) {
	page, opts := pageParams(ctx)

	classes, total, err := c.classService.ListClasses(ctx.Request.Context(), opts)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, classes, total, page, "")
}

func (c *ClassController) CreateClass(ctx *gin.Context) {
	var req dto.CreateClassRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	class, err := c.classService.CreateClass(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(class, "Class created successfully"))
}

func (c *ClassController) GetClass(ctx *gin.Context) {
	class, err := c.classService.GetClass(ctx.Request.Context(), ctx.Param("class_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(class, ""))
}

func (c *ClassController) UpdateClass(ctx *gin.Context) {
	var req dto.UpdateClassRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	class, err := c.classService.UpdateClass(ctx.Request.Context(), ctx.Param("class_id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(class, "Class updated successfully"))
}

// DeleteClass soft deletes a class
func (c *ClassController) DeleteClass(ctx *gin.Context) {
	id := ctx.Param("class_id")
	if err := c.lifecycleService.SoftDeleteClass(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{"classId": id}, "Class deleted successfully"))
}
