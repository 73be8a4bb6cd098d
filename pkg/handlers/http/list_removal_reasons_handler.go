package http

import (
	"github.com/NeuralTrust/FollowerManager/pkg/domain/removal"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
)

type listRemovalReasonsHandler struct{}

func NewListRemovalReasonsHandler() Handler {
	return &listRemovalReasonsHandler{}
}

// Handle @Summary List removal reasons
// @Tags Followers
// @Produce json
// @Success 200 {object} response.Envelope{data=[]removal.Reason}
// @Router /api/removal-reasons [get]
func (h *listRemovalReasonsHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(response.OK(removal.Reasons))
}
