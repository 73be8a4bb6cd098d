package http

import (
	"context"

	"github.com/NeuralTrust/FollowerManager/pkg/config"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Seeder interface {
	Seed(ctx context.Context) (*user.User, error)
}

type initDBHandler struct {
	logger       *logrus.Logger
	mode         string
	seeder       Seeder
	auditService auditlogs.Service
}

func NewInitDBHandler(logger *logrus.Logger, mode string, seeder Seeder, auditService auditlogs.Service) Handler {
	return &initDBHandler{
		logger:       logger,
		mode:         mode,
		seeder:       seeder,
		auditService: auditService,
	}
}

// Handle @Summary Seed sample data
// @Description Loads the demo user, followers and settings. Mock mode only.
// @Tags System
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /api/init-db [post]
func (h *initDBHandler) Handle(c *fiber.Ctx) error {
	if h.mode != config.ModeMock {
		return c.Status(fiber.StatusForbidden).JSON(response.Error("Database initialization is only available in mock mode"))
	}
	u, err := h.seeder.Seed(c.Context())
	if err != nil {
		return respondError(h.logger, c, err, "Failed to initialize database")
	}
	h.emitAuditLog(c, u)
	return c.Status(fiber.StatusOK).JSON(response.Message("Database initialized successfully"))
}

func (h *initDBHandler) emitAuditLog(c *fiber.Ctx, u *user.User) {
	if h.auditService == nil {
		return
	}
	h.auditService.Emit(newAuditEvent(c, nil,
		auditlogs.EventInfo{
			Type:        auditlogs.EventTypeSampleSeeded,
			Category:    auditlogs.CategoryAccount,
			Description: "sample data seeded",
			Status:      auditlogs.StatusSuccess,
		},
		auditlogs.Target{Type: auditlogs.TargetTypeUser, ID: u.ID.String(), Name: u.Username},
	))
}
