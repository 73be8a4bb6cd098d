package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/domain/removal"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/settings"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=Purger --dir=. --output=./mocks --filename=retention_purger_mock.go --case=underscore --with-expecter
type Purger interface {
	// Purge deletes removal history older than each user's retention
	// window and returns the number of rows deleted.
	Purge(ctx context.Context) (int64, error)
}

type purger struct {
	logger   *logrus.Logger
	settings settings.Repository
	removals removal.Repository
	now      func() time.Time
}

func NewPurger(logger *logrus.Logger, settingsRepo settings.Repository, removals removal.Repository) Purger {
	return &purger{
		logger:   logger,
		settings: settingsRepo,
		removals: removals,
		now:      time.Now,
	}
}

func (p *purger) Purge(ctx context.Context) (int64, error) {
	all, err := p.settings.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list settings: %w", err)
	}
	now := p.now()
	var total int64
	for _, s := range all {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		days := s.DataRetentionDays
		if days < settings.MinRetentionDays {
			days = settings.DefaultDataRetentionDays
		}
		cutoff := now.AddDate(0, 0, -days)
		n, err := p.removals.DeleteBefore(ctx, s.UserID, cutoff)
		if err != nil {
			p.logger.WithError(err).WithField("user_id", s.UserID).Error("failed to purge removal history")
			continue
		}
		total += n
	}
	prometheus.RetentionPurged.Add(float64(total))
	return total, nil
}
