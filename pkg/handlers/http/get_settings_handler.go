package http

import (
	appSettings "github.com/NeuralTrust/FollowerManager/pkg/app/settings"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getSettingsHandler struct {
	logger          *logrus.Logger
	settingsService appSettings.Service
}

func NewGetSettingsHandler(logger *logrus.Logger, settingsService appSettings.Service) Handler {
	return &getSettingsHandler{
		logger:          logger,
		settingsService: settingsService,
	}
}

// Handle @Summary Get user settings
// @Description Returns the stored settings, or the defaults when none were saved
// @Tags User
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} response.Envelope{data=settings.Settings}
// @Router /api/user/settings [get]
func (h *getSettingsHandler) Handle(c *fiber.Ctx) error {
	u, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	s, err := h.settingsService.Get(c.Context(), u.ID)
	if err != nil {
		return respondError(h.logger, c, err, "Failed to process user settings")
	}
	return c.Status(fiber.StatusOK).JSON(response.OK(s))
}
