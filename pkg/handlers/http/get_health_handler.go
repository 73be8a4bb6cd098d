package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type getHealthHandler struct{}

func NewGetHealthHandler() Handler {
	return &getHealthHandler{}
}

// Handle @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *getHealthHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}
