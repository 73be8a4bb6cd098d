package memory

import (
	"context"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/domain"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/settings"
	"github.com/google/uuid"
)

type settingsRepository struct {
	store *Store
}

func (r *settingsRepository) Get(_ context.Context, userID uuid.UUID) (*settings.Settings, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for i := range r.store.settings {
		if r.store.settings[i].UserID == userID {
			s := r.store.settings[i]
			return &s, nil
		}
	}
	return nil, domain.NewNotFoundError("settings", userID)
}

func (r *settingsRepository) List(_ context.Context) ([]settings.Settings, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]settings.Settings, len(r.store.settings))
	copy(out, r.store.settings)
	return out, nil
}

func (r *settingsRepository) Upsert(_ context.Context, s *settings.Settings) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	for i := range r.store.settings {
		if r.store.settings[i].UserID == s.UserID {
			s.ID = r.store.settings[i].ID
			s.CreatedAt = r.store.settings[i].CreatedAt
			s.UpdatedAt = now
			r.store.settings[i] = *s
			return nil
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	r.store.settings = append(r.store.settings, *s)
	return nil
}

func (r *settingsRepository) Delete(_ context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.settings {
		if r.store.settings[i].UserID == userID {
			r.store.settings = append(r.store.settings[:i], r.store.settings[i+1:]...)
			return nil
		}
	}
	return nil
}
