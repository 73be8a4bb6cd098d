package memory

import (
	"context"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/domain"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/google/uuid"
)

type followerRepository struct {
	store *Store
}

func (r *followerRepository) Get(_ context.Context, userID, id uuid.UUID) (*follower.Follower, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for i := range r.store.followers {
		f := r.store.followers[i]
		if f.UserID == userID && f.ID == id {
			return &f, nil
		}
	}
	return nil, domain.NewNotFoundError("follower", id)
}

func (r *followerRepository) List(
	_ context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]follower.Follower, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	owned := r.owned(userID)
	start, end := window(len(owned), offset, limit)
	page := make([]follower.Follower, end-start)
	copy(page, owned[start:end])
	return page, int64(len(owned)), nil
}

func (r *followerRepository) ListAll(_ context.Context, userID uuid.UUID) ([]follower.Follower, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.owned(userID), nil
}

func (r *followerRepository) ListByIDs(
	_ context.Context,
	userID uuid.UUID,
	ids []uuid.UUID,
) ([]follower.Follower, error) {
	wanted := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]follower.Follower, 0, len(ids))
	for _, f := range r.store.followers {
		if f.UserID != userID {
			continue
		}
		if _, ok := wanted[f.ID]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *followerRepository) Upsert(_ context.Context, followers []follower.Follower) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	for _, f := range followers {
		idx := r.indexOf(f.UserID, f.PlatformID)
		if idx >= 0 {
			existing := r.store.followers[idx]
			f.ID = existing.ID
			f.CreatedAt = existing.CreatedAt
			f.UpdatedAt = now
			r.store.followers[idx] = f
			continue
		}
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
		if f.CreatedAt.IsZero() {
			f.CreatedAt = now
		}
		f.UpdatedAt = now
		r.store.followers = append(r.store.followers, f)
	}
	return nil
}

func (r *followerRepository) Delete(_ context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	doomed := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		doomed[id] = struct{}{}
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.followers[:0]
	var deleted int64
	for _, f := range r.store.followers {
		if _, ok := doomed[f.ID]; ok && f.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, f)
	}
	r.store.followers = kept
	return deleted, nil
}

// owned must be called with the lock held.
func (r *followerRepository) owned(userID uuid.UUID) []follower.Follower {
	out := make([]follower.Follower, 0)
	for _, f := range r.store.followers {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out
}

func (r *followerRepository) indexOf(userID uuid.UUID, platformID string) int {
	for i, f := range r.store.followers {
		if f.UserID == userID && f.PlatformID == platformID {
			return i
		}
	}
	return -1
}
