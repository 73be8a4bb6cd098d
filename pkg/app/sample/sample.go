// Package sample holds the demo dataset served in mock mode.
package sample

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/settings"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	Username   = "testuser"
	PlatformID = "123456789"
)

// Account is the platform profile of the demo user.
func Account() platform.Account {
	return platform.Account{
		ID:             PlatformID,
		Username:       Username,
		DisplayName:    "Test User",
		Bio:            "A test user for the follower manager app.",
		AvatarURL:      "https://via.placeholder.com/150",
		FollowerCount:  1500,
		FollowingCount: 300,
		IsVerified:     true,
	}
}

func User() *user.User {
	acc := Account()
	return &user.User{
		Username:   acc.Username,
		PlatformID: acc.ID,
		Platform:   user.PlatformTwitter,
		Profile: user.Profile{
			DisplayName:    acc.DisplayName,
			AvatarURL:      acc.AvatarURL,
			Bio:            acc.Bio,
			FollowerCount:  acc.FollowerCount,
			FollowingCount: acc.FollowingCount,
			IsVerified:     acc.IsVerified,
		},
	}
}

// Followers returns the seeded followers of userID.
func Followers(userID uuid.UUID) []follower.Follower {
	return []follower.Follower{
		{
			UserID:         userID,
			PlatformID:     "987654321",
			Username:       "bot_account_123",
			DisplayName:    "Bot Account",
			Bio:            "Follow me for crypto tips!",
			AvatarURL:      "https://via.placeholder.com/50",
			FollowerCount:  10,
			FollowingCount: 1500,
			BotScore:       0.95,
		},
		{
			UserID:         userID,
			PlatformID:     "112233445",
			Username:       "mutual_friend",
			DisplayName:    "Mutual Friend",
			Bio:            "Loves coding and coffee.",
			AvatarURL:      "https://via.placeholder.com/50",
			FollowerCount:  500,
			FollowingCount: 400,
			IsMutual:       true,
			BotScore:       0.1,
		},
	}
}

func Settings(userID uuid.UUID) *settings.Settings {
	return &settings.Settings{
		UserID:               userID,
		MinFollowerThreshold: 50,
		MaxFollowingRatio:    5.0,
		BotDetectionEnabled:  true,
		RemovalConfirmations: true,
		DataRetentionDays:    60,
	}
}

// Seeder writes the demo dataset through the repositories.
type Seeder struct {
	logger    *logrus.Logger
	users     user.Repository
	followers follower.Repository
	settings  settings.Repository
}

func NewSeeder(
	logger *logrus.Logger,
	users user.Repository,
	followers follower.Repository,
	settingsRepo settings.Repository,
) *Seeder {
	return &Seeder{
		logger:    logger,
		users:     users,
		followers: followers,
		settings:  settingsRepo,
	}
}

// Seed is idempotent: rerunning it refreshes the same rows.
func (s *Seeder) Seed(ctx context.Context) (*user.User, error) {
	u := User()
	if err := s.users.Upsert(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to seed user: %w", err)
	}
	if err := s.followers.Upsert(ctx, Followers(u.ID)); err != nil {
		return nil, fmt.Errorf("failed to seed followers: %w", err)
	}
	if err := s.settings.Upsert(ctx, Settings(u.ID)); err != nil {
		return nil, fmt.Errorf("failed to seed settings: %w", err)
	}
	s.logger.WithField("user_id", u.ID).Info("sample data seeded")
	return u, nil
}
