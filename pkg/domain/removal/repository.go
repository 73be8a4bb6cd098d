package removal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Removal) error
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]Removal, int64, error)
	DeleteBefore(ctx context.Context, userID uuid.UUID, before time.Time) (int64, error)
}
