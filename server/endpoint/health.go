package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicenotes/component"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// HealthResponse is the body served by /health.
type HealthResponse struct {
	Status     component.HealthStatus `json:"status"`
	Service    string                 `json:"service"`
	Timestamp  string                 `json:"timestamp"`
	Components []component.Health     `json:"components,omitempty"`
}

// Health returns a handler that reports service health including component
// statuses. Any unhealthy component answers 503.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := HealthResponse{
			Status:    component.StatusHealthy,
			Service:   serviceName,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if checker != nil {
			resp.Components = checker(c.Request.Context())
			resp.Status = Aggregate(resp.Components)
		}

		httpStatus := http.StatusOK
		if resp.Status == component.StatusUnhealthy {
			httpStatus = http.StatusServiceUnavailable
		}
		c.JSON(httpStatus, resp)
	}
}

// Aggregate folds component statuses: unhealthy wins over degraded, which
// wins over healthy.
func Aggregate(components []component.Health) component.HealthStatus {
	status := component.StatusHealthy
	for _, ch := range components {
		switch ch.Status {
		case component.StatusUnhealthy:
			return component.StatusUnhealthy
		case component.StatusDegraded:
			status = component.StatusDegraded
		}
	}
	return status
}
