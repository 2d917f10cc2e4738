package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/titik444/express-blog/pkg/database"
	pkgredis "github.com/titik444/express-blog/pkg/redis"
)

// HealthHandler reports service liveness and readiness
type HealthHandler struct {
	db      *database.PostgresDB
	redis   *pkgredis.Client
	version string
}

// NewHealthHandler creates a new HealthHandler. redis may be nil when
// disabled.
func NewHealthHandler(db *database.PostgresDB, redis *pkgredis.Client, version string) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, version: version}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

// Ready handles GET /ready. Reports 503 until every dependency answers.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()
	checks := gin.H{}
	ready := true

	if err := h.db.HealthCheck(ctx); err != nil {
		checks["postgres"] = err.Error()
		ready = false
	} else {
		checks["postgres"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.HealthCheck(ctx); err != nil {
			checks["redis"] = err.Error()
			ready = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"ready":  ready,
		"checks": checks,
	})
}
