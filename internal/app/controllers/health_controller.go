package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/pkg/logger"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthController reports liveness and database reachability
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.PingContext(pingCtx); err != nil {
		logger.Warn().Err(err).Msg("Health check: database unreachable")
		ctx.JSON(http.StatusServiceUnavailable,
			dto.NewErrorResponse(dto.ErrorCodeInternalServer, "Database unreachable"))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{"status": "ok", "database": "ok"}, ""))
}
