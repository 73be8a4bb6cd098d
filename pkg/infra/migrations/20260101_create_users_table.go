package migrations

import (
	"github.com/NeuralTrust/FollowerManager/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20260101_create_users_table",
		Name: "Create users table",
		Up: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE TABLE IF NOT EXISTS users (
					id               UUID PRIMARY KEY,
					username         TEXT NOT NULL,
					platform_id      TEXT NOT NULL,
					platform         TEXT NOT NULL,
					access_token     TEXT,
					refresh_token    TEXT,
					token_expires_at TIMESTAMPTZ,
					profile_data     JSONB NOT NULL DEFAULT '{}'::jsonb,
					last_login_at    TIMESTAMPTZ,
					created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE(platform, platform_id)
				);
			`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS users;`).Error
		},
	})
}
