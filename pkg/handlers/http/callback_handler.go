package http

import (
	"fmt"

	appAuth "github.com/NeuralTrust/FollowerManager/pkg/app/auth"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/request"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type callbackHandler struct {
	logger       *logrus.Logger
	authService  appAuth.Service
	auditService auditlogs.Service
}

func NewCallbackHandler(logger *logrus.Logger, authService appAuth.Service, auditService auditlogs.Service) Handler {
	return &callbackHandler{
		logger:       logger,
		authService:  authService,
		auditService: auditService,
	}
}

// Handle @Summary Complete the OAuth flow
// @Description Exchanges the authorization code for platform tokens and opens a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param code query string false "Authorization code"
// @Param state query string false "OAuth state"
// @Success 200 {object} response.Envelope{data=appAuth.Session}
// @Failure 400 {object} response.Envelope
// @Router /api/auth/callback [get]
// @Router /api/auth/callback [post]
func (h *callbackHandler) Handle(c *fiber.Ctx) error {
	var req request.CallbackRequest
	if c.Method() == fiber.MethodGet {
		if err := c.QueryParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(response.Error("Invalid query parameters"))
		}
	} else if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(ErrInvalidJsonPayload))
	}

	if req.Error != "" {
		h.emitAuditLog(c, nil, auditlogs.StatusFailure, req.Error)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(fmt.Sprintf("Authorization denied: %s", req.Error)))
	}

	session, err := h.authService.Callback(c.Context(), req.Code, req.State)
	if err != nil {
		h.emitAuditLog(c, nil, auditlogs.StatusFailure, err.Error())
		return respondError(h.logger, c, err, "Authentication failed")
	}

	h.emitAuditLog(c, session, auditlogs.StatusSuccess, "")
	return c.Status(fiber.StatusOK).JSON(response.OK(session))
}

func (h *callbackHandler) emitAuditLog(c *fiber.Ctx, session *appAuth.Session, status, errMsg string) {
	if h.auditService == nil {
		return
	}
	info := auditlogs.EventInfo{
		Type:         auditlogs.EventTypeLoginFailed,
		Category:     auditlogs.CategoryAccount,
		Description:  "oauth callback",
		Status:       status,
		ErrorMessage: errMsg,
	}
	if session == nil || session.User == nil {
		h.auditService.Emit(newAuditEvent(c, nil, info, auditlogs.Target{Type: auditlogs.TargetTypeUser}))
		return
	}
	info.Type = auditlogs.EventTypeLoginSucceeded
	h.auditService.Emit(newAuditEvent(c, session.User, info, auditlogs.Target{
		Type: auditlogs.TargetTypeUser,
		ID:   session.User.ID.String(),
		Name: session.User.Username,
	}))
}
