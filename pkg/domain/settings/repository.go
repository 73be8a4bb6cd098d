package settings

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (*Settings, error)
	List(ctx context.Context) ([]Settings, error)
	Upsert(ctx context.Context, s *Settings) error
	Delete(ctx context.Context, userID uuid.UUID) error
}
