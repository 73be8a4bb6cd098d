package follower

import (
	"context"
	"fmt"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/app/botdetection"
	domainFollower "github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/prometheus"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type SyncResult struct {
	Synced int   `json:"synced"`
	Mutual int   `json:"mutual"`
	Bots   int   `json:"bots"`
	Pruned int64 `json:"pruned"`
}

//go:generate mockery --name=Syncer --dir=. --output=./mocks --filename=follower_syncer_mock.go --case=underscore --with-expecter
type Syncer interface {
	Sync(ctx context.Context, u *user.User) (*SyncResult, error)
}

type syncer struct {
	logger   *logrus.Logger
	client   platform.Client
	tokens   platform.TokenSource
	repo     domainFollower.Repository
	detector botdetection.Detector
	now      func() time.Time
}

func NewSyncer(
	logger *logrus.Logger,
	client platform.Client,
	tokens platform.TokenSource,
	repo domainFollower.Repository,
	detector botdetection.Detector,
) Syncer {
	return &syncer{
		logger:   logger,
		client:   client,
		tokens:   tokens,
		repo:     repo,
		detector: detector,
		now:      time.Now,
	}
}

// Sync replaces the stored follower list of u with the platform's current
// one. Followers that no longer follow u are deleted.
func (s *syncer) Sync(ctx context.Context, u *user.User) (*SyncResult, error) {
	token, err := s.tokens.AccessToken(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve access token: %w", err)
	}

	var followers, following []platform.Account
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		followers, err = s.client.Followers(gctx, token, u.PlatformID)
		if err != nil {
			return fmt.Errorf("failed to fetch followers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		following, err = s.client.Following(gctx, token, u.PlatformID)
		if err != nil {
			return fmt.Errorf("failed to fetch following: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	followed := make(map[string]struct{}, len(following))
	for _, acc := range following {
		followed[acc.ID] = struct{}{}
	}

	now := s.now().UTC()
	result := &SyncResult{}
	records := make([]domainFollower.Follower, 0, len(followers))
	seen := make(map[string]struct{}, len(followers))
	for _, acc := range followers {
		if _, dup := seen[acc.ID]; dup {
			continue
		}
		seen[acc.ID] = struct{}{}

		rec := fromAccount(u.ID, acc)
		_, rec.IsMutual = followed[acc.ID]
		verdict := s.detector.Detect(&rec)
		rec.BotScore = verdict.Score
		rec.LastAnalyzed = now

		if rec.IsMutual {
			result.Mutual++
		}
		if verdict.IsBot {
			result.Bots++
		}
		prometheus.BotClassifications.WithLabelValues(prometheus.BotVerdict(verdict.IsBot)).Inc()
		records = append(records, rec)
	}

	if err := s.repo.Upsert(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to store followers: %w", err)
	}
	result.Synced = len(records)
	prometheus.FollowersSynced.Add(float64(len(records)))

	pruned, err := s.prune(ctx, u.ID, seen)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Warn("failed to prune stale followers")
	}
	result.Pruned = pruned

	s.logger.WithFields(logrus.Fields{
		"user_id": u.ID,
		"synced":  result.Synced,
		"mutual":  result.Mutual,
		"bots":    result.Bots,
		"pruned":  result.Pruned,
	}).Info("followers synced")
	return result, nil
}

func (s *syncer) prune(ctx context.Context, userID uuid.UUID, current map[string]struct{}) (int64, error) {
	stored, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return 0, err
	}
	var stale []uuid.UUID
	for _, f := range stored {
		if _, ok := current[f.PlatformID]; !ok {
			stale = append(stale, f.ID)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	return s.repo.Delete(ctx, userID, stale)
}

func fromAccount(userID uuid.UUID, acc platform.Account) domainFollower.Follower {
	return domainFollower.Follower{
		UserID:         userID,
		PlatformID:     acc.ID,
		Username:       acc.Username,
		DisplayName:    acc.DisplayName,
		Bio:            acc.Bio,
		AvatarURL:      acc.AvatarURL,
		FollowerCount:  acc.FollowerCount,
		FollowingCount: acc.FollowingCount,
		IsVerified:     acc.IsVerified,
		IsPrivate:      acc.IsPrivate,
	}
}
