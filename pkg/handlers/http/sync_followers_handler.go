package http

import (
	"strconv"

	appFollower "github.com/NeuralTrust/FollowerManager/pkg/app/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type syncFollowersHandler struct {
	logger       *logrus.Logger
	syncer       appFollower.Syncer
	auditService auditlogs.Service
}

func NewSyncFollowersHandler(
	logger *logrus.Logger,
	syncer appFollower.Syncer,
	auditService auditlogs.Service,
) Handler {
	return &syncFollowersHandler{
		logger:       logger,
		syncer:       syncer,
		auditService: auditService,
	}
}

// Handle @Summary Sync followers
// @Description Pulls followers and following from the platform, scores every follower and stores the result
// @Tags Followers
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} response.Envelope{data=follower.SyncResult}
// @Failure 401 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /api/followers/sync [post]
func (h *syncFollowersHandler) Handle(c *fiber.Ctx) error {
	u, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	result, err := h.syncer.Sync(c.Context(), u)
	if err != nil {
		h.emitAuditLog(c, u, nil, err.Error())
		return respondError(h.logger, c, err, "Failed to sync followers")
	}

	h.emitAuditLog(c, u, result, "")
	return c.Status(fiber.StatusOK).JSON(response.Envelope{
		Success: true,
		Data:    result,
		Message: "Synced " + strconv.Itoa(result.Synced) + " followers",
	})
}

func (h *syncFollowersHandler) emitAuditLog(c *fiber.Ctx, u *user.User, result *appFollower.SyncResult, errMsg string) {
	if h.auditService == nil {
		return
	}
	info := auditlogs.EventInfo{
		Type:     auditlogs.EventTypeFollowersSynced,
		Category: auditlogs.CategoryFollowers,
		Status:   auditlogs.StatusSuccess,
	}
	if errMsg != "" {
		info.Status = auditlogs.StatusFailure
		info.ErrorMessage = errMsg
	}
	evt := newAuditEvent(c, u, info, auditlogs.Target{Type: auditlogs.TargetTypeUser, ID: u.ID.String(), Name: u.Username})
	if result != nil {
		evt.Metadata = map[string]string{
			"synced": strconv.Itoa(result.Synced),
			"mutual": strconv.Itoa(result.Mutual),
			"bots":   strconv.Itoa(result.Bots),
			"pruned": strconv.FormatInt(result.Pruned, 10),
		}
	}
	h.auditService.Emit(evt)
}
