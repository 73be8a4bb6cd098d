package repository

import (
	"context"
	"errors"

	"github.com/NeuralTrust/FollowerManager/pkg/domain"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 200

var followerUpsertColumns = []string{
	"username", "display_name", "bio", "avatar_url",
	"follower_count", "following_count", "is_verified", "is_private", "is_mutual",
	"bot_score", "last_analyzed", "updated_at",
}

type followerRepository struct {
	db *gorm.DB
}

func NewFollowerRepository(db *gorm.DB) follower.Repository {
	return &followerRepository{db: db}
}

func (r *followerRepository) Get(ctx context.Context, userID, id uuid.UUID) (*follower.Follower, error) {
	var f follower.Follower
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("follower", id)
		}
		return nil, err
	}
	return &f, nil
}

func (r *followerRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]follower.Follower, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&follower.Follower{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	followers := make([]follower.Follower, 0, limit)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&followers).Error; err != nil {
		return nil, 0, err
	}
	return followers, total, nil
}

func (r *followerRepository) ListAll(ctx context.Context, userID uuid.UUID) ([]follower.Follower, error) {
	var followers []follower.Follower
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&followers).Error; err != nil {
		return nil, err
	}
	return followers, nil
}

func (r *followerRepository) ListByIDs(
	ctx context.Context,
	userID uuid.UUID,
	ids []uuid.UUID,
) ([]follower.Follower, error) {
	if len(ids) == 0 {
		return []follower.Follower{}, nil
	}
	var followers []follower.Follower
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Order("created_at ASC, id ASC").
		Find(&followers).Error; err != nil {
		return nil, err
	}
	return followers, nil
}

func (r *followerRepository) Upsert(ctx context.Context, followers []follower.Follower) error {
	if len(followers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "platform_id"}},
		DoUpdates: clause.AssignmentColumns(followerUpsertColumns),
	}).CreateInBatches(followers, upsertBatchSize).Error
}

func (r *followerRepository) Delete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&follower.Follower{})
	return result.RowsAffected, result.Error
}
