package dto

import "github.com/counselorhub/counselorhub/internal/app/models"

// HardDeleteWarning accompanies every successful permanent delete
const HardDeleteWarning = "This action is permanent and cannot be undone"

// HardDeleteStudentResponse is the body of DELETE /admin/students/{id}/hard-delete
type HardDeleteStudentResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Warning string                   `json:"warning"`
	Details *models.HardDeleteResult `json:"details"`
}

// HardDeleteClassResponse is the body of DELETE /admin/classes/{id}/hard-delete
type HardDeleteClassResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Warning string `json:"warning"`
	ClassID string `json:"classId"`
}

// BulkHardDeleteRequest is the body of DELETE /admin/students/bulk-hard-delete
type BulkHardDeleteRequest struct {
	StudentIDs []string `json:"studentIds" binding:"required,min=1,dive,required"`
}

// BulkHardDeleteResponse reports per-id outcomes of a bulk hard delete
type BulkHardDeleteResponse struct {
	Success      bool                    `json:"success"`
	Message      string                  `json:"message"`
	Warning      string                  `json:"warning"`
	DeletedCount int                     `json:"deletedCount"`
	Errors       []string                `json:"errors"`
	Results      []models.BulkItemResult `json:"results"`
}
