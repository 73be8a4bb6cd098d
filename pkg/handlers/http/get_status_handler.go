package http

import (
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/NeuralTrust/FollowerManager/pkg/version"
	"github.com/gofiber/fiber/v2"
)

type StatusOutput struct {
	Status    string       `json:"status"`
	Mode      string       `json:"mode"`
	Timestamp time.Time    `json:"timestamp"`
	Uptime    float64      `json:"uptime"`
	Version   version.Info `json:"version"`
}

type getStatusHandler struct {
	mode      string
	startedAt time.Time
}

func NewGetStatusHandler(mode string) Handler {
	return &getStatusHandler{
		mode:      mode,
		startedAt: time.Now(),
	}
}

// Handle @Summary Get API status
// @Description Returns the health, mode and build version of the API
// @Tags System
// @Produce json
// @Success 200 {object} response.Envelope "Status information"
// @Router /api/status [get]
func (h *getStatusHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(response.Envelope{
		Success: true,
		Message: version.AppName + " API is running",
		Data: StatusOutput{
			Status:    "ok",
			Mode:      h.mode,
			Timestamp: time.Now().UTC(),
			Uptime:    time.Since(h.startedAt).Seconds(),
			Version:   version.GetInfo(),
		},
	})
}
