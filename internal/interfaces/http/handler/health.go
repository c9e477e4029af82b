package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	reportapp "github.com/spendlens/backend/internal/application/report"
	"github.com/spendlens/backend/internal/infrastructure/logger"
	"github.com/spendlens/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness checks
type HealthHandler struct {
	BaseHandler
	db  Pinger
	now func() time.Time
}

// NewHealthHandler creates a new HealthHandler. db may be nil, in which case
// readiness only reports the process as up.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	h.OK(c, h.status("ok"))
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			logger.GetGinLogger(c).Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, h.status("unavailable"))
			return
		}
	}
	h.OK(c, h.status("ok"))
}

func (h *HealthHandler) status(status string) dto.HealthResponse {
	return dto.HealthResponse{
		Status:    status,
		Timestamp: reportapp.FormatTimestamp(h.now()),
	}
}
