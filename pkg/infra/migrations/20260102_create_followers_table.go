package migrations

import (
	"github.com/NeuralTrust/FollowerManager/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20260102_create_followers_table",
		Name: "Create followers table",
		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS followers (
					id              UUID PRIMARY KEY,
					user_id         UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					platform_id     TEXT NOT NULL,
					username        TEXT NOT NULL,
					display_name    TEXT,
					bio             TEXT,
					avatar_url      TEXT,
					follower_count  INTEGER NOT NULL DEFAULT 0 CHECK (follower_count >= 0),
					following_count INTEGER NOT NULL DEFAULT 0 CHECK (following_count >= 0),
					is_verified     BOOLEAN NOT NULL DEFAULT FALSE,
					is_private      BOOLEAN NOT NULL DEFAULT FALSE,
					is_mutual       BOOLEAN NOT NULL DEFAULT FALSE,
					bot_score       DOUBLE PRECISION NOT NULL DEFAULT 0,
					last_analyzed   TIMESTAMPTZ,
					created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE(user_id, platform_id)
				);
			`).Error; err != nil {
				return err
			}
			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_followers_user_created
				ON followers (user_id, created_at);
			`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS followers;`).Error
		},
	})
}
