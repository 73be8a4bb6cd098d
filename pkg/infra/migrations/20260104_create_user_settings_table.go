package migrations

import (
	"github.com/NeuralTrust/FollowerManager/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20260104_create_user_settings_table",
		Name: "Create user_settings table",
		Up: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE TABLE IF NOT EXISTS user_settings (
					id                     UUID PRIMARY KEY,
					user_id                UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
					min_follower_threshold INTEGER NOT NULL DEFAULT 100,
					max_following_ratio    DOUBLE PRECISION NOT NULL DEFAULT 10,
					bot_detection_enabled  BOOLEAN NOT NULL DEFAULT TRUE,
					mutual_only_mode       BOOLEAN NOT NULL DEFAULT FALSE,
					email_notifications    BOOLEAN NOT NULL DEFAULT FALSE,
					removal_confirmations  BOOLEAN NOT NULL DEFAULT TRUE,
					data_retention_days    INTEGER NOT NULL DEFAULT 30,
					created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS user_settings;`).Error
		},
	})
}
