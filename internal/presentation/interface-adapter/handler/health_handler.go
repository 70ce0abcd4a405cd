package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	appcontext "github.com/kanehiroyuu/hero-tour/internal/common/context"
	"github.com/kanehiroyuu/hero-tour/internal/common/logging"
	"github.com/kanehiroyuu/hero-tour/internal/presentation/interface-adapter/response"
)

// HealthHandler handles health check requests
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	span, ctx := startSpan(c, "handler.health_check")
	defer span.Finish()

	span.SetTag("health.status", "healthy")

	logging.LogWithTrace(ctx, appcontext.GetLogger(ctx), "handler", "Health check endpoint called", nil)

	return response.RespondJSONWithTrace(ctx, c.Response(), http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Service is healthy",
	})
}
