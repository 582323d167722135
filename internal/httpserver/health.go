package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	pkgErrors "conversational-commerce/pkg/errors"
	"conversational-commerce/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthMessage = "Conversational Commerce API V1"
	HealthVersion = "1.0.0"
	ServiceName   = "conversational-commerce"
)

const readyTimeout = 2 * time.Second

var errEventLogUnavailable = pkgErrors.NewHTTPError(http.StatusServiceUnavailable, "event log unreachable")

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is healthy"
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// readyCheck reports ready once the event log answers a ping.
// @Summary Readiness Check
// @Description Check if the API and its event log are ready to serve traffic
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is ready"
// @Failure 503 {object} map[string]interface{} "Event log unreachable"
// @Router /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	if srv.eventLog != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()
		if err := srv.eventLog.Ping(ctx); err != nil {
			srv.l.Warnf(ctx, "httpserver.readyCheck: event log ping: %v", err)
			response.Error(c, errEventLogUnavailable, map[string]interface{}{
				"status":  "not_ready",
				"service": ServiceName,
			})
			return
		}
	}

	response.OK(c, gin.H{
		"status":  "ready",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the API is alive
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is alive"
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}
