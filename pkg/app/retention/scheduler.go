package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const runTimeout = 5 * time.Minute

// Scheduler runs a Purger on a cron schedule.
type Scheduler struct {
	logger *logrus.Logger
	purger Purger
	cron   *cron.Cron
}

// NewScheduler accepts standard five-field specs and descriptors such as
// "@daily" or "@every 6h".
func NewScheduler(logger *logrus.Logger, purger Purger, spec string) (*Scheduler, error) {
	s := &Scheduler{
		logger: logger,
		purger: purger,
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running purge to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	n, err := s.purger.Purge(ctx)
	if err != nil {
		s.logger.WithError(err).Error("retention purge failed")
		return
	}
	s.logger.WithField("deleted", n).Info("retention purge finished")
}
