package memory

import (
	"context"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/domain"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/google/uuid"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Get(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for i := range r.store.users {
		if r.store.users[i].ID == id {
			u := r.store.users[i]
			return &u, nil
		}
	}
	return nil, domain.NewNotFoundError("user", id)
}

func (r *userRepository) GetByPlatformID(_ context.Context, platform, platformID string) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for i := range r.store.users {
		if r.store.users[i].Platform == platform && r.store.users[i].PlatformID == platformID {
			u := r.store.users[i]
			return &u, nil
		}
	}
	return nil, domain.NewNotFoundError("user", platform+"/"+platformID)
}

func (r *userRepository) Upsert(_ context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	for i := range r.store.users {
		existing := r.store.users[i]
		if existing.Platform == u.Platform && existing.PlatformID == u.PlatformID {
			u.ID = existing.ID
			u.CreatedAt = existing.CreatedAt
			u.UpdatedAt = now
			r.store.users[i] = *u
			return nil
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	r.store.users = append(r.store.users, *u)
	return nil
}

func (r *userRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.users {
		if r.store.users[i].ID == id {
			r.store.users = append(r.store.users[:i], r.store.users[i+1:]...)
			return nil
		}
	}
	return domain.NewNotFoundError("user", id)
}
