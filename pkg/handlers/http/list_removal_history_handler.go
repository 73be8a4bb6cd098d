package http

import (
	appFollower "github.com/NeuralTrust/FollowerManager/pkg/app/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/common"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/removal"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/request"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listRemovalHistoryHandler struct {
	logger *logrus.Logger
	repo   removal.Repository
}

func NewListRemovalHistoryHandler(logger *logrus.Logger, repo removal.Repository) Handler {
	return &listRemovalHistoryHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary List removal history
// @Description Returns past removals of the user, newest first
// @Tags Followers
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} response.Envelope{data=response.Page[removal.Removal]}
// @Router /api/followers/history [get]
func (h *listRemovalHistoryHandler) Handle(c *fiber.Ctx) error {
	u, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	q, err := request.ParsePage(c, common.DefaultHistoryPageSize)
	if err != nil {
		return respondError(h.logger, c, err, "")
	}

	removals, total, err := h.repo.List(c.Context(), u.ID, appFollower.Offset(q.Page, q.Limit), q.Limit)
	if err != nil {
		return respondError(h.logger, c, err, "Failed to fetch removal history")
	}
	return c.Status(fiber.StatusOK).JSON(response.OK(response.NewPage(removals, q.Page, q.Limit, total)))
}
