package repository

import (
	"context"
	"errors"

	"github.com/NeuralTrust/FollowerManager/pkg/domain"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/settings"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) settings.Repository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, userID uuid.UUID) (*settings.Settings, error) {
	var s settings.Settings
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("settings", userID)
		}
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepository) List(ctx context.Context) ([]settings.Settings, error) {
	var all []settings.Settings
	if err := r.db.WithContext(ctx).Order("user_id").Find(&all).Error; err != nil {
		return nil, err
	}
	return all, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, s *settings.Settings) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"min_follower_threshold", "max_following_ratio", "bot_detection_enabled",
			"mutual_only_mode", "email_notifications", "removal_confirmations",
			"data_retention_days", "updated_at",
		}),
	}).Create(s).Error
	if err != nil {
		return err
	}
	// the conflict path keeps the stored id; reload so callers see it
	return r.db.WithContext(ctx).Where("user_id = ?", s.UserID).First(s).Error
}

func (r *settingsRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&settings.Settings{}).Error
}
