package http

import (
	appFollower "github.com/NeuralTrust/FollowerManager/pkg/app/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/common"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/request"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listFollowersHandler struct {
	logger *logrus.Logger
	finder appFollower.Finder
}

func NewListFollowersHandler(logger *logrus.Logger, finder appFollower.Finder) Handler {
	return &listFollowersHandler{
		logger: logger,
		finder: finder,
	}
}

// Handle @Summary List followers
// @Description Returns the stored followers of the user, one page at a time
// @Tags Followers
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} response.Envelope{data=response.Page[follower.Follower]}
// @Failure 400 {object} response.Envelope
// @Router /api/followers [get]
func (h *listFollowersHandler) Handle(c *fiber.Ctx) error {
	u, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	q, err := request.ParsePage(c, common.DefaultFollowersPageSize)
	if err != nil {
		return respondError(h.logger, c, err, "")
	}

	followers, total, err := h.finder.List(c.Context(), u.ID, q.Page, q.Limit)
	if err != nil {
		return respondError(h.logger, c, err, "Failed to fetch followers")
	}
	return c.Status(fiber.StatusOK).JSON(response.OK(response.NewPage(followers, q.Page, q.Limit, total)))
}
