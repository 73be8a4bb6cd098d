package follower

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/FollowerManager/pkg/app/botdetection"
	"github.com/NeuralTrust/FollowerManager/pkg/app/filter"
	domainFollower "github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/prometheus"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Inspection struct {
	FollowerID  uuid.UUID             `json:"followerId"`
	Username    string                `json:"username"`
	Score       float64               `json:"score"`
	Reasons     []string              `json:"reasons"`
	IsBot       bool                  `json:"isBot"`
	Severity    botdetection.Severity `json:"severity"`
	Description string                `json:"description"`
	Color       string                `json:"color"`
	StoredScore float64               `json:"storedScore"`
}

//go:generate mockery --name=Analyzer --dir=. --output=./mocks --filename=follower_analyzer_mock.go --case=underscore --with-expecter
type Analyzer interface {
	// Analyze filters the stored followers of userID and returns one page of
	// the survivors in storage order, plus the number of survivors.
	Analyze(ctx context.Context, userID uuid.UUID, cfg filter.Config, page, limit int) ([]domainFollower.Follower, int64, error)
	Inspect(ctx context.Context, userID, followerID uuid.UUID) (*Inspection, error)
}

type analyzer struct {
	logger   *logrus.Logger
	repo     domainFollower.Repository
	detector botdetection.Detector
	pipeline filter.Pipeline
	gate     filter.BotGate
}

func NewAnalyzer(
	logger *logrus.Logger,
	repo domainFollower.Repository,
	detector botdetection.Detector,
	pipeline filter.Pipeline,
	gate filter.BotGate,
) Analyzer {
	return &analyzer{
		logger:   logger,
		repo:     repo,
		detector: detector,
		pipeline: pipeline,
		gate:     gate,
	}
}

func (a *analyzer) Analyze(
	ctx context.Context,
	userID uuid.UUID,
	cfg filter.Config,
	page, limit int,
) ([]domainFollower.Follower, int64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}

	records, err := a.repo.ListAll(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load followers: %w", err)
	}

	// With the recompute gate the pipeline decides on fresh scores, so the
	// records carry the same scores back to the caller.
	if a.gate != filter.BotGateStored {
		for i := range records {
			records[i].BotScore = a.detector.Detect(&records[i]).Score
		}
	}

	survivors := a.pipeline.Apply(records, cfg)
	prometheus.FollowersAnalyzed.Add(float64(len(records)))

	a.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"analyzed": len(records),
		"matched":  len(survivors),
		"filters":  cfg.Summary(),
	}).Debug("followers analyzed")

	return paginate(survivors, page, limit), int64(len(survivors)), nil
}

func (a *analyzer) Inspect(ctx context.Context, userID, followerID uuid.UUID) (*Inspection, error) {
	f, err := a.repo.Get(ctx, userID, followerID)
	if err != nil {
		return nil, err
	}
	res := a.detector.Detect(f)
	severity := botdetection.SeverityOf(res.Score)
	return &Inspection{
		FollowerID:  f.ID,
		Username:    f.Username,
		Score:       res.Score,
		Reasons:     res.Reasons,
		IsBot:       res.IsBot,
		Severity:    severity,
		Description: severity.Label(),
		Color:       severity.Color(),
		StoredScore: f.BotScore,
	}, nil
}

func paginate(records []domainFollower.Follower, page, limit int) []domainFollower.Follower {
	if limit < 1 {
		return records
	}
	start := Offset(page, limit)
	if start >= len(records) {
		return []domainFollower.Follower{}
	}
	end := start + limit
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
