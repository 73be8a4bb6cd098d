package http

import (
	appFollower "github.com/NeuralTrust/FollowerManager/pkg/app/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type getBotAnalysisHandler struct {
	logger   *logrus.Logger
	analyzer appFollower.Analyzer
}

func NewGetBotAnalysisHandler(logger *logrus.Logger, analyzer appFollower.Analyzer) Handler {
	return &getBotAnalysisHandler{
		logger:   logger,
		analyzer: analyzer,
	}
}

// Handle @Summary Explain a bot score
// @Description Scores one follower and returns the contributing reasons and severity
// @Tags Followers
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param follower_id path string true "Follower ID"
// @Success 200 {object} response.Envelope{data=follower.Inspection}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/followers/{follower_id}/bot-analysis [get]
func (h *getBotAnalysisHandler) Handle(c *fiber.Ctx) error {
	u, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	followerID, err := uuid.Parse(c.Params("follower_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(response.Error("invalid follower id"))
	}

	inspection, err := h.analyzer.Inspect(c.Context(), u.ID, followerID)
	if err != nil {
		return respondError(h.logger, c, err, "Failed to analyze follower")
	}
	return c.Status(fiber.StatusOK).JSON(response.OK(inspection))
}
