package mocks

import (
	"sync"

	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
)

// Service records emitted events for assertions.
type Service struct {
	mu     sync.Mutex
	events []auditlogs.Event
}

func (s *Service) Emit(event auditlogs.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *Service) Close() error { return nil }

func (s *Service) Events() []auditlogs.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]auditlogs.Event, len(s.events))
	copy(out, s.events)
	return out
}
