package http

import (
	"time"

	appAuth "github.com/NeuralTrust/FollowerManager/pkg/app/auth"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type LoginOutput struct {
	AuthURL   string     `json:"authUrl,omitempty"`
	State     string     `json:"state,omitempty"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	User      *user.User `json:"user,omitempty"`
}

type loginHandler struct {
	logger       *logrus.Logger
	authService  appAuth.Service
	auditService auditlogs.Service
}

func NewLoginHandler(logger *logrus.Logger, authService appAuth.Service, auditService auditlogs.Service) Handler {
	return &loginHandler{
		logger:       logger,
		authService:  authService,
		auditService: auditService,
	}
}

// Handle @Summary Start a login
// @Description In live mode returns the platform authorization URL. In mock mode signs the demo user in directly.
// @Tags Auth
// @Accept json
// @Produce json
// @Param login body appAuth.LoginRequest false "Login data"
// @Success 200 {object} response.Envelope{data=LoginOutput}
// @Failure 400 {object} response.Envelope
// @Router /api/auth/login [post]
func (h *loginHandler) Handle(c *fiber.Ctx) error {
	var req appAuth.LoginRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(response.Error(ErrInvalidJsonPayload))
		}
	}

	result, err := h.authService.Login(c.Context(), req)
	if err != nil {
		return respondError(h.logger, c, err, "Failed to initiate authentication")
	}

	if result.Session == nil {
		return c.Status(fiber.StatusOK).JSON(response.OK(LoginOutput{
			AuthURL: result.AuthURL,
			State:   result.State,
		}))
	}

	h.emitAuditLog(c, result.User)
	expiresAt := result.ExpiresAt
	return c.Status(fiber.StatusOK).JSON(response.OK(LoginOutput{
		Token:     result.Token,
		ExpiresAt: &expiresAt,
		User:      result.User,
	}))
}

func (h *loginHandler) emitAuditLog(c *fiber.Ctx, u *user.User) {
	if h.auditService == nil {
		return
	}
	h.auditService.Emit(newAuditEvent(c, u,
		auditlogs.EventInfo{
			Type:        auditlogs.EventTypeLoginSucceeded,
			Category:    auditlogs.CategoryAccount,
			Description: "user signed in",
			Status:      auditlogs.StatusSuccess,
		},
		auditlogs.Target{Type: auditlogs.TargetTypeUser, ID: u.ID.String(), Name: u.Username},
	))
}
