package http

import (
	appAuth "github.com/NeuralTrust/FollowerManager/pkg/app/auth"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
	"github.com/NeuralTrust/FollowerManager/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type logoutHandler struct {
	logger       *logrus.Logger
	authService  appAuth.Service
	auditService auditlogs.Service
}

func NewLogoutHandler(logger *logrus.Logger, authService appAuth.Service, auditService auditlogs.Service) Handler {
	return &logoutHandler{
		logger:       logger,
		authService:  authService,
		auditService: auditService,
	}
}

// Handle @Summary Log out
// @Description Revokes the presented token
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} response.Envelope
// @Router /api/auth/logout [post]
func (h *logoutHandler) Handle(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.authService.Logout(c.Context(), claims); err != nil {
		return respondError(h.logger, c, err, "Failed to log out")
	}
	if u, ok := currentUser(c); ok {
		h.emitAuditLog(c, u)
	}
	return c.Status(fiber.StatusOK).JSON(response.Message("Logged out successfully"))
}

func (h *logoutHandler) emitAuditLog(c *fiber.Ctx, u *user.User) {
	if h.auditService == nil {
		return
	}
	h.auditService.Emit(newAuditEvent(c, u,
		auditlogs.EventInfo{
			Type:     auditlogs.EventTypeLogout,
			Category: auditlogs.CategoryAccount,
			Status:   auditlogs.StatusSuccess,
		},
		auditlogs.Target{Type: auditlogs.TargetTypeUser, ID: u.ID.String(), Name: u.Username},
	))
}
