package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// pinger reports database connectivity. Implemented by pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

// brokerHealth reports broker connectivity. Implemented by
// service.MessagePublisher.
type brokerHealth interface {
	IsHealthy() bool
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	db     pinger
	broker brokerHealth
}

// NewHealthHandler creates a new HealthHandler. broker may be nil when the
// deployment runs without a message broker.
func NewHealthHandler(db pinger, broker brokerHealth) *HealthHandler {
	return &HealthHandler{db: db, broker: broker}
}

// LivenessProbe checks that the process is running.
func (h *HealthHandler) LivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"time":   time.Now(),
	})
}

// ReadinessProbe checks downstream dependencies.
func (h *HealthHandler) ReadinessProbe(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "DOWN",
			"database": "unhealthy",
			"error":    err.Error(),
			"time":     time.Now(),
		})
		return
	}

	if h.broker != nil && !h.broker.IsHealthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "DOWN",
			"rabbitmq": "unhealthy",
			"time":     time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "UP",
		"database": "healthy",
		"time":     time.Now(),
	})
}
