package user

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	GetByPlatformID(ctx context.Context, platform, platformID string) (*User, error)
	// Upsert matches on (platform, platform id) and fills u.ID with the stored id.
	Upsert(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
