package migrations

import (
	"github.com/NeuralTrust/FollowerManager/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20260103_create_removals_table",
		Name: "Create removals history table",
		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS removals (
					id           UUID PRIMARY KEY,
					user_id      UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					follower_ids UUID[] NOT NULL DEFAULT '{}',
					reason       TEXT NOT NULL,
					count        INTEGER NOT NULL DEFAULT 0,
					timestamp    TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}
			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_removals_user_timestamp
				ON removals (user_id, timestamp DESC);
			`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS removals;`).Error
		},
	})
}
