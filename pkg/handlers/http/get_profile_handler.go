package http

import (
	appAuth "github.com/NeuralTrust/FollowerManager/pkg/app/auth"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getProfileHandler struct {
	logger      *logrus.Logger
	authService appAuth.Service
}

func NewGetProfileHandler(logger *logrus.Logger, authService appAuth.Service) Handler {
	return &getProfileHandler{
		logger:      logger,
		authService: authService,
	}
}

// Handle @Summary Get the user profile
// @Tags User
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} response.Envelope{data=user.User}
// @Failure 404 {object} response.Envelope
// @Router /api/user/profile [get]
func (h *getProfileHandler) Handle(c *fiber.Ctx) error {
	u, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	profile, err := h.authService.Profile(c.Context(), u.ID)
	if err != nil {
		return respondError(h.logger, c, err, "Failed to fetch user profile")
	}
	return c.Status(fiber.StatusOK).JSON(response.OK(profile))
}
