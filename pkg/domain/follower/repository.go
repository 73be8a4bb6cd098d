package follower

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*Follower, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]Follower, int64, error)
	ListAll(ctx context.Context, userID uuid.UUID) ([]Follower, error)
	ListByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]Follower, error)
	// Upsert inserts or updates followers keyed by (user, platform id).
	Upsert(ctx context.Context, followers []Follower) error
	Delete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}
