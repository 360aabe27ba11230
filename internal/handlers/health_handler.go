package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

type HealthHandler struct {
	metrics *services.Metrics
}

func NewHealthHandler(metrics *services.Metrics) *HealthHandler {
	return &HealthHandler{metrics: metrics}
}

// HandleHealth handles GET /health. It is a liveness probe only and does not
// touch the model backend or the cache store.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{Status: "ok"})
}

// HandleMetrics handles GET /metrics
func (h *HealthHandler) HandleMetrics(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}

func (h *HealthHandler) HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "AI Resume Screener API",
		"version": "1.0.0",
		"endpoints": []string{
			"POST /screen",
			"GET /health",
			"GET /metrics",
		},
	})
}
