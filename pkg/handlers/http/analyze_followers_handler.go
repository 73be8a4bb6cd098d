package http

import (
	appFollower "github.com/NeuralTrust/FollowerManager/pkg/app/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/app/filter"
	"github.com/NeuralTrust/FollowerManager/pkg/common"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/request"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AnalyzeOutput struct {
	response.Page[follower.Follower]
	Filters filter.Config `json:"filters"`
	Summary string        `json:"summary"`
}

type analyzeFollowersHandler struct {
	logger   *logrus.Logger
	analyzer appFollower.Analyzer
}

func NewAnalyzeFollowersHandler(logger *logrus.Logger, analyzer appFollower.Analyzer) Handler {
	return &analyzeFollowersHandler{
		logger:   logger,
		analyzer: analyzer,
	}
}

// Handle @Summary Analyze followers
// @Description Runs the filter pipeline over the stored followers and returns the followers it selects
// @Tags Followers
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param filters body request.AnalyzeRequest false "Filter configuration"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(100)
// @Success 200 {object} response.Envelope{data=AnalyzeOutput}
// @Failure 400 {object} response.Envelope
// @Router /api/followers/analyze [post]
func (h *analyzeFollowersHandler) Handle(c *fiber.Ctx) error {
	u, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req request.AnalyzeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(response.Error(ErrInvalidJsonPayload))
		}
	}
	if err := req.Validate(); err != nil {
		return respondError(h.logger, c, err, "")
	}
	q, err := request.ParsePage(c, common.DefaultAnalyzePageSize)
	if err != nil {
		return respondError(h.logger, c, err, "")
	}

	cfg := req.ToConfig()
	followers, total, err := h.analyzer.Analyze(c.Context(), u.ID, cfg, q.Page, q.Limit)
	if err != nil {
		return respondError(h.logger, c, err, "Failed to analyze followers")
	}

	return c.Status(fiber.StatusOK).JSON(response.OK(AnalyzeOutput{
		Page:    response.NewPage(followers, q.Page, q.Limit, total),
		Filters: cfg,
		Summary: cfg.Summary(),
	}))
}
