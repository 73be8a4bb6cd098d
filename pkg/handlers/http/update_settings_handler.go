package http

import (
	"strings"

	appSettings "github.com/NeuralTrust/FollowerManager/pkg/app/settings"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/settings"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/request"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type updateSettingsHandler struct {
	logger          *logrus.Logger
	settingsService appSettings.Service
	auditService    auditlogs.Service
}

func NewUpdateSettingsHandler(
	logger *logrus.Logger,
	settingsService appSettings.Service,
	auditService auditlogs.Service,
) Handler {
	return &updateSettingsHandler{
		logger:          logger,
		settingsService: settingsService,
		auditService:    auditService,
	}
}

// Handle @Summary Update user settings
// @Description Applies a partial update. Omitted fields keep their value.
// @Tags User
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param settings body request.UpdateSettingsRequest true "Settings to change"
// @Success 200 {object} response.Envelope{data=settings.Settings}
// @Failure 400 {object} response.Envelope
// @Router /api/user/settings [put]
func (h *updateSettingsHandler) Handle(c *fiber.Ctx) error {
	u, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req request.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(ErrInvalidJsonPayload))
	}
	if err := req.Validate(); err != nil {
		return respondError(h.logger, c, err, "")
	}

	update := req.ToUpdate()
	s, err := h.settingsService.Update(c.Context(), u.ID, update)
	if err != nil {
		return respondError(h.logger, c, err, "Failed to process user settings")
	}

	h.emitAuditLog(c, u, s, changedFields(req))
	return c.Status(fiber.StatusOK).JSON(response.OK(s))
}

func (h *updateSettingsHandler) emitAuditLog(c *fiber.Ctx, u *user.User, s *settings.Settings, changed []string) {
	if h.auditService == nil {
		return
	}
	evt := newAuditEvent(c, u,
		auditlogs.EventInfo{
			Type:     auditlogs.EventTypeSettingsUpdated,
			Category: auditlogs.CategoryAccount,
			Status:   auditlogs.StatusSuccess,
		},
		auditlogs.Target{Type: auditlogs.TargetTypeSettings, ID: s.ID.String()},
	)
	evt.Metadata = map[string]string{"fields": strings.Join(changed, ",")}
	h.auditService.Emit(evt)
}

func changedFields(r request.UpdateSettingsRequest) []string {
	var out []string
	if r.MinFollowerThreshold != nil {
		out = append(out, "minFollowerThreshold")
	}
	if r.MaxFollowingRatio != nil {
		out = append(out, "maxFollowingRatio")
	}
	if r.BotDetectionEnabled != nil {
		out = append(out, "botDetectionEnabled")
	}
	if r.MutualOnlyMode != nil {
		out = append(out, "mutualOnlyMode")
	}
	if r.EmailNotifications != nil {
		out = append(out, "emailNotifications")
	}
	if r.RemovalConfirmations != nil {
		out = append(out, "removalConfirmations")
	}
	if r.DataRetentionDays != nil {
		out = append(out, "dataRetentionDays")
	}
	return out
}
