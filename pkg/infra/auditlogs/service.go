package auditlogs

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	queueSize     = 1000
	exportTimeout = 10 * time.Second
)

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=service_mock.go --case=underscore --with-expecter
type Service interface {
	Emit(event Event)
	Close() error
}

// service hands events to a background worker so request paths never
// wait on a slow exporter.
type service struct {
	enabled  bool
	logger   *logrus.Logger
	exporter Exporter
	queue    chan Event
	mu       sync.RWMutex
	closed   bool
	wg       sync.WaitGroup
}

func NewService(exporter Exporter, logger *logrus.Logger, enabled bool) Service {
	s := &service{
		enabled:  enabled && exporter != nil,
		logger:   logger,
		exporter: exporter,
		queue:    make(chan Event, queueSize),
	}
	if s.enabled {
		s.wg.Add(1)
		go s.run()
	}
	return s
}

func (s *service) Emit(event Event) {
	if !s.enabled {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Actor.Type == "" {
		event.Actor.Type = ActorTypeSystem
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- event:
	default:
		s.logger.WithField("audit_type", event.Event.Type).Warn("audit queue is full, dropping event")
	}
}

func (s *service) run() {
	defer s.wg.Done()
	for event := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		if err := s.exporter.Export(ctx, &event); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"exporter":   s.exporter.Name(),
				"audit_type": event.Event.Type,
			}).Error("failed to export audit event")
		}
		cancel()
	}
}

// Close drains queued events and closes the exporter.
func (s *service) Close() error {
	if !s.enabled {
		return nil
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	s.wg.Wait()
	s.exporter.Close()
	return nil
}
