package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookingbot/backend/internal/services"
)

// HealthHandler reports service liveness for monitoring.
type HealthHandler struct {
	sessions *services.SessionManager
	dbCheck  func() error
}

// NewHealthHandler creates a new health handler. dbCheck may be nil when the
// service runs on the in-memory store.
func NewHealthHandler(sessions *services.SessionManager, dbCheck func() error) *HealthHandler {
	return &HealthHandler{sessions: sessions, dbCheck: dbCheck}
}

// Health returns 200 while the service and its database are reachable.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := "healthy"
	statusCode := fiber.StatusOK

	dbHealthy := true
	if h.dbCheck != nil {
		if err := h.dbCheck(); err != nil {
			status = "unhealthy"
			statusCode = fiber.StatusServiceUnavailable
			dbHealthy = false
		}
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status": status,
		"services": fiber.Map{
			"database": dbHealthy,
			"sessions": h.sessions.ActiveSessions(),
		},
	})
}
