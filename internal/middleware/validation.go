package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/pkg/validation"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.MustRegister(v)
	}
}

// BindJSON binds and validates the request body into obj. On failure it writes a
// 400 with per-field details and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		resp := dto.NewErrorResponse(dto.ErrorCodeValidationFailed, "Invalid request body")
		if fields := dto.ValidationDetails(err); fields != nil {
			resp = resp.WithDetails(fields)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, resp)
		return false
	}
	return true
}
