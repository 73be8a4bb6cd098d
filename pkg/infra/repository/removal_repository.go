package repository

import (
	"context"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/domain/removal"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type removalRepository struct {
	db *gorm.DB
}

func NewRemovalRepository(db *gorm.DB) removal.Repository {
	return &removalRepository{db: db}
}

func (r *removalRepository) Create(ctx context.Context, rm *removal.Removal) error {
	return r.db.WithContext(ctx).Create(rm).Error
}

// List returns the newest removals first.
func (r *removalRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]removal.Removal, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&removal.Removal{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	removals := make([]removal.Removal, 0, limit)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Offset(offset).
		Limit(limit).
		Find(&removals).Error; err != nil {
		return nil, 0, err
	}
	return removals, total, nil
}

func (r *removalRepository) DeleteBefore(ctx context.Context, userID uuid.UUID, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND timestamp < ?", userID, before).
		Delete(&removal.Removal{})
	return result.RowsAffected, result.Error
}
