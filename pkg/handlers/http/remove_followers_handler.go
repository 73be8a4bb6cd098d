package http

import (
	appFollower "github.com/NeuralTrust/FollowerManager/pkg/app/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/request"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type removeFollowersHandler struct {
	logger       *logrus.Logger
	remover      appFollower.Remover
	auditService auditlogs.Service
}

func NewRemoveFollowersHandler(
	logger *logrus.Logger,
	remover appFollower.Remover,
	auditService auditlogs.Service,
) Handler {
	return &removeFollowersHandler{
		logger:       logger,
		remover:      remover,
		auditService: auditService,
	}
}

// Handle @Summary Remove followers
// @Description Removes the selected followers from the platform in paced batches and records the removal
// @Tags Followers
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param removal body request.RemoveRequest true "Followers to remove"
// @Success 200 {object} response.Envelope{data=follower.RemovalResult}
// @Failure 400 {object} response.Envelope
// @Router /api/followers/remove [delete]
func (h *removeFollowersHandler) Handle(c *fiber.Ctx) error {
	u, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req request.RemoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(ErrInvalidJsonPayload))
	}
	removeReq, err := req.ToRemoveRequest()
	if err != nil {
		return respondError(h.logger, c, err, "")
	}

	result, err := h.remover.Remove(c.Context(), u, removeReq, nil)
	if err != nil {
		return respondError(h.logger, c, err, "Failed to remove followers")
	}

	h.emitAuditLog(c, u, removeReq.Reason, result)
	return c.Status(fiber.StatusOK).JSON(response.OK(result))
}

func (h *removeFollowersHandler) emitAuditLog(c *fiber.Ctx, u *user.User, reason string, result *appFollower.RemovalResult) {
	if h.auditService == nil {
		return
	}
	h.auditService.Emit(auditlogs.NewRemovalEvent(
		auditActor(u),
		auditlogs.ContextFromRequest(c),
		result.RemovalID.String(),
		reason,
		result.RemovedCount,
		result.FailedCount,
	))
}
