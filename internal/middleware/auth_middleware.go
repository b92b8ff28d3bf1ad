package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/counselorhub/counselorhub/internal/app/models"
	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/pkg/auth"
	"github.com/counselorhub/counselorhub/internal/pkg/logger"
)

// Context keys set by JWTAuth
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextRole     = "role"
)

// ActiveUserChecker reports whether a token's user may still use the API
type ActiveUserChecker interface {
	IsActive(ctx context.Context, userID string) (bool, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      ActiveUserChecker
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, users ActiveUserChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// JWTAuth validates the Bearer token and puts its claims on the context
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required"))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrorCodeInvalidToken, "Invalid token format"))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			code, message := dto.ErrorCodeInvalidToken, "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code, message = dto.ErrorCodeExpiredToken, "Token has expired"
			}
			logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
			return
		}

		// a soft-deleted account loses access before its tokens expire
		active, err := m.users.IsActive(c.Request.Context(), claims.UserID)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}
		if !active {
			logger.Debug().Str("userId", claims.UserID).Msg("Rejected token of disabled account")
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrorCodeForbidden, "Account is disabled"))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// RoleRequired only lets the given role through. JWTAuth must run first.
func (m *AuthMiddleware) RoleRequired(requiredRole models.Role) gin.HandlerFunc {
	return m.RolesAllowed(requiredRole)
}

// RolesAllowed lets any of the given roles through. JWTAuth must run first.
func (m *AuthMiddleware) RolesAllowed(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required"))
			return
		}

		role, _ := value.(models.Role)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponse(dto.ErrorCodeForbidden, "You don't have sufficient permissions for this operation"))
	}
}

// CurrentUserID returns the authenticated user id, or "" outside JWTAuth
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
