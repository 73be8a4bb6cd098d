package memory

import (
	"context"
	"sort"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/domain/removal"
	"github.com/google/uuid"
)

type removalRepository struct {
	store *Store
}

func (r *removalRepository) Create(_ context.Context, rm *removal.Removal) error {
	if rm.ID == uuid.Nil {
		rm.ID = uuid.New()
	}
	if rm.Timestamp.IsZero() {
		rm.Timestamp = time.Now()
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored := *rm
	stored.FollowerIDs = append(removal.FollowerIDs(nil), rm.FollowerIDs...)
	r.store.removals = append(r.store.removals, stored)
	return nil
}

func (r *removalRepository) List(
	_ context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]removal.Removal, int64, error) {
	r.store.mu.RLock()
	owned := make([]removal.Removal, 0)
	for _, rm := range r.store.removals {
		if rm.UserID == userID {
			owned = append(owned, rm)
		}
	}
	r.store.mu.RUnlock()

	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].Timestamp.After(owned[j].Timestamp)
	})
	start, end := window(len(owned), offset, limit)
	return owned[start:end], int64(len(owned)), nil
}

func (r *removalRepository) DeleteBefore(_ context.Context, userID uuid.UUID, before time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.removals[:0]
	var deleted int64
	for _, rm := range r.store.removals {
		if rm.UserID == userID && rm.Timestamp.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, rm)
	}
	r.store.removals = kept
	return deleted, nil
}
