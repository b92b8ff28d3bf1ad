package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/pkg/apperrors"
	"github.com/counselorhub/counselorhub/internal/pkg/logger"
)

type errorMapping struct {
	target   error
	status   int
	code     dto.ErrorCode
	fallback string
}

// errorMappings is checked in order; the first sentinel in the chain wins
var errorMappings = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrInvalidState, http.StatusBadRequest, dto.ErrorCodeInvalidState, "Invalid state"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},
	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeForbidden, "Account is disabled"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
}

// HandleAPIError maps an error to its HTTP status and writes the error body.
// Unknown errors are logged and answered with a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		resp := dto.NewErrorResponse(m.code, apperrors.Message(err, m.fallback))
		if details := apperrors.DetailsOf(err); details != nil {
			resp = resp.WithDetails(details)
		}
		c.JSON(m.status, resp)
		return
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Unhandled error")
	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.ErrorCodeInternalServer, "An internal error occurred"))
}

// Recovery turns panics into the standard 500 body
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponse(dto.ErrorCodeInternalServer, "An internal error occurred"))
	})
}
