package follower

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainFollower "github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/removal"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/prometheus"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBatchSize  = 10
	DefaultBatchPause = time.Second

	StatusRemoved = "removed"
	StatusFailed  = "failed"

	followerNotFound = "follower not found"
)

var (
	ErrNoFollowersSelected = errors.New("at least one follower must be selected")
	ErrReasonRequired      = errors.New("removal reason is required")
)

type RemoveRequest struct {
	FollowerIDs []uuid.UUID `json:"followerIds"`
	Reason      string      `json:"reason"`
}

func (r RemoveRequest) Validate() error {
	if len(r.FollowerIDs) == 0 {
		return ErrNoFollowersSelected
	}
	if strings.TrimSpace(r.Reason) == "" {
		return ErrReasonRequired
	}
	return nil
}

type RemovalDetail struct {
	FollowerID uuid.UUID `json:"followerId"`
	Username   string    `json:"username,omitempty"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Platform   string    `json:"platform"`
}

type RemovalResult struct {
	RemovalID    uuid.UUID       `json:"removalId"`
	RemovedCount int             `json:"removedCount"`
	FailedCount  int             `json:"failedCount"`
	Details      []RemovalDetail `json:"details"`
}

// Progress is reported after every batch.
type Progress struct {
	Batch     int `json:"batch"`
	Batches   int `json:"batches"`
	Processed int `json:"processed"`
	Total     int `json:"total"`
	Removed   int `json:"removed"`
	Failed    int `json:"failed"`
	Percent   int `json:"percent"`
}

type ProgressFunc func(Progress)

type RemoverConfig struct {
	BatchSize  int
	BatchPause time.Duration
}

//go:generate mockery --name=Remover --dir=. --output=./mocks --filename=follower_remover_mock.go --case=underscore --with-expecter
type Remover interface {
	Remove(ctx context.Context, u *user.User, req RemoveRequest, progress ProgressFunc) (*RemovalResult, error)
}

type remover struct {
	logger      *logrus.Logger
	client      platform.Client
	tokens      platform.TokenSource
	repo        domainFollower.Repository
	removalRepo removal.Repository
	cfg         RemoverConfig
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewRemover(
	logger *logrus.Logger,
	client platform.Client,
	tokens platform.TokenSource,
	repo domainFollower.Repository,
	removalRepo removal.Repository,
	cfg RemoverConfig,
) Remover {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchPause < 0 {
		cfg.BatchPause = DefaultBatchPause
	}
	return &remover{
		logger:      logger,
		client:      client,
		tokens:      tokens,
		repo:        repo,
		removalRepo: removalRepo,
		cfg:         cfg,
		sleep:       sleepCtx,
	}
}

// Remove removes the requested followers one at a time in batches, pausing
// between batches. Per-follower failures are reported in the result and do
// not abort the run. Only a cancelled context or a storage failure does.
func (r *remover) Remove(
	ctx context.Context,
	u *user.User,
	req RemoveRequest,
	progress ProgressFunc,
) (*RemovalResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ids := dedupe(req.FollowerIDs)

	owned, err := r.repo.ListByIDs(ctx, u.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load followers: %w", err)
	}
	byID := make(map[uuid.UUID]domainFollower.Follower, len(owned))
	for _, f := range owned {
		byID[f.ID] = f
	}

	token, err := r.tokens.AccessToken(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve access token: %w", err)
	}

	result := &RemovalResult{Details: make([]RemovalDetail, 0, len(ids))}
	removed := make([]uuid.UUID, 0, len(ids))
	batches := (len(ids) + r.cfg.BatchSize - 1) / r.cfg.BatchSize

	for b := 0; b < batches; b++ {
		if b > 0 {
			if err := r.sleep(ctx, r.cfg.BatchPause); err != nil {
				return nil, err
			}
		}
		start := b * r.cfg.BatchSize
		end := min(start+r.cfg.BatchSize, len(ids))

		began := time.Now()
		for _, id := range ids[start:end] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			detail := r.removeOne(ctx, u, token, id, byID)
			if detail.Status == StatusRemoved {
				result.RemovedCount++
				removed = append(removed, id)
			} else {
				result.FailedCount++
			}
			prometheus.FollowerRemovals.WithLabelValues(detail.Status).Inc()
			result.Details = append(result.Details, detail)
		}
		prometheus.RemovalBatchLatency.Observe(float64(time.Since(began).Milliseconds()))

		if progress != nil {
			progress(Progress{
				Batch:     b + 1,
				Batches:   batches,
				Processed: end,
				Total:     len(ids),
				Removed:   result.RemovedCount,
				Failed:    result.FailedCount,
				Percent:   end * 100 / len(ids),
			})
		}
	}

	record := &removal.Removal{
		UserID:      u.ID,
		FollowerIDs: removed,
		Reason:      req.Reason,
		Count:       result.RemovedCount,
	}
	if err := r.removalRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record removal: %w", err)
	}
	result.RemovalID = record.ID

	if len(removed) > 0 {
		if _, err := r.repo.Delete(ctx, u.ID, removed); err != nil {
			return nil, fmt.Errorf("failed to delete removed followers: %w", err)
		}
	}

	r.logger.WithFields(logrus.Fields{
		"user_id": u.ID,
		"reason":  req.Reason,
		"removed": result.RemovedCount,
		"failed":  result.FailedCount,
	}).Info("follower removal finished")
	return result, nil
}

func (r *remover) removeOne(
	ctx context.Context,
	u *user.User,
	token string,
	id uuid.UUID,
	owned map[uuid.UUID]domainFollower.Follower,
) RemovalDetail {
	detail := RemovalDetail{FollowerID: id, Platform: u.Platform}
	f, ok := owned[id]
	if !ok {
		detail.Status = StatusFailed
		detail.Error = followerNotFound
		return detail
	}
	detail.Username = f.Username
	if err := r.client.RemoveFollower(ctx, token, u.PlatformID, f.PlatformID); err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":     u.ID,
			"follower_id": id,
		}).Warn("failed to remove follower")
		detail.Status = StatusFailed
		detail.Error = err.Error()
		return detail
	}
	detail.Status = StatusRemoved
	return detail
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
