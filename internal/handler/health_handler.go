package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prohmpiriya/canteen-storefront/internal/guard"
)

// DependencyCheck is a readiness probe of one dependency, e.g. Redis
type DependencyCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	service string
	session guard.Snapshotter
	checks  []DependencyCheck
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(serviceName string, sess guard.Snapshotter, checks ...DependencyCheck) *HealthHandler {
	return &HealthHandler{service: serviceName, session: sess, checks: checks}
}

// Health returns basic health status
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
	})
}

// Ready reports whether the persisted session has been restored and the
// dependencies answer
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.session.Snapshot().HasHydrated {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not_ready",
			"service": h.service,
			"session": "hydrating",
		})
		return
	}

	deps := make(gin.H, len(h.checks))
	ready := true
	for _, check := range h.checks {
		if err := check.Ping(c.Request.Context()); err != nil {
			deps[check.Name] = err.Error()
			ready = false
			continue
		}
		deps[check.Name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":       "not_ready",
			"service":      h.service,
			"session":      "hydrated",
			"dependencies": deps,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ready",
		"service":      h.service,
		"session":      "hydrated",
		"dependencies": deps,
	})
}
