package http

import (
	appAuth "github.com/NeuralTrust/FollowerManager/pkg/app/auth"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/NeuralTrust/FollowerManager/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type refreshTokenHandler struct {
	logger      *logrus.Logger
	authService appAuth.Service
}

func NewRefreshTokenHandler(logger *logrus.Logger, authService appAuth.Service) Handler {
	return &refreshTokenHandler{
		logger:      logger,
		authService: authService,
	}
}

// Handle @Summary Refresh the session token
// @Description Issues a new token and revokes the presented one
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} response.Envelope{data=appAuth.Session}
// @Failure 401 {object} response.Envelope
// @Router /api/auth/refresh [post]
func (h *refreshTokenHandler) Handle(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	session, err := h.authService.Refresh(c.Context(), claims)
	if err != nil {
		return respondError(h.logger, c, err, "Failed to refresh token")
	}
	return c.Status(fiber.StatusOK).JSON(response.OK(session))
}
