package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/app/services"
	"github.com/counselorhub/counselorhub/internal/middleware"
)

// RecordController handles the student record endpoints under /students/{student_id}
type RecordController struct {
	recordService *services.RecordService
}

// NewRecordController creates a new RecordController
func NewRecordController(recordService *services.RecordService) *RecordController {
	return &RecordController{recordService: recordService}
}

// respondList writes a record list, or the mapped error
func respondList(ctx *gin.Context, items interface{}, err error) {
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(items, ""))
}

// respondCreated writes a created record, or the mapped error
func respondCreated(ctx *gin.Context, item interface{}, err error) {
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(item, "Record created successfully"))
}

func (c *RecordController) ListCounselingSessions(ctx *gin.Context) {
	items, err := c.recordService.ListCounselingSessions(ctx.Request.Context(), ctx.Param("student_id"))
	respondList(ctx, items, err)
}

func (c *RecordController) CreateCounselingSession(ctx *gin.Context) {
	var req dto.CreateCounselingSessionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	item, err := c.recordService.CreateCounselingSession(ctx.Request.Context(),
		ctx.Param("student_id"), middleware.CurrentUserID(ctx), &req)
	respondCreated(ctx, item, err)
}

func (c *RecordController) ListMentalHealthAssessments(ctx *gin.Context) {
	items, err := c.recordService.ListMentalHealthAssessments(ctx.Request.Context(), ctx.Param("student_id"))
	respondList(ctx, items, err)
}

func (c *RecordController) CreateMentalHealthAssessment(ctx *gin.Context) {
	var req dto.CreateMentalHealthAssessmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	item, err := c.recordService.CreateMentalHealthAssessment(ctx.Request.Context(),
		ctx.Param("student_id"), middleware.CurrentUserID(ctx), &req)
	respondCreated(ctx, item, err)
}

func (c *RecordController) ListBehaviorRecords(ctx *gin.Context) {
	items, err := c.recordService.ListBehaviorRecords(ctx.Request.Context(), ctx.Param("student_id"))
	respondList(ctx, items, err)
}

func (c *RecordController) CreateBehaviorRecord(ctx *gin.Context) {
	var req dto.CreateBehaviorRecordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	item, err := c.recordService.CreateBehaviorRecord(ctx.Request.Context(),
		ctx.Param("student_id"), middleware.CurrentUserID(ctx), &req)
	respondCreated(ctx, item, err)
}

func (c *RecordController) ListCareerAssessments(ctx *gin.Context) {
	items, err := c.recordService.ListCareerAssessments(ctx.Request.Context(), ctx.Param("student_id"))
	respondList(ctx, items, err)
}

func (c *RecordController) CreateCareerAssessment(ctx *gin.Context) {
	var req dto.CreateCareerAssessmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	item, err := c.recordService.CreateCareerAssessment(ctx.Request.Context(),
		ctx.Param("student_id"), middleware.CurrentUserID(ctx), &req)
	respondCreated(ctx, item, err)
}
