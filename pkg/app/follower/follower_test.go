package follower

import (
	"io"

	domainFollower "github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func humanRecord(userID uuid.UUID, platformID, username string) domainFollower.Follower {
	return domainFollower.Follower{
		UserID:         userID,
		PlatformID:     platformID,
		Username:       username,
		Bio:            "Designer and artist",
		AvatarURL:      "https://example.com/real.png",
		FollowerCount:  800,
		FollowingCount: 200,
		IsVerified:     true,
	}
}

// botRecord passes every non-bot predicate of the default filter config.
func botRecord(userID uuid.UUID, platformID string) domainFollower.Follower {
	return domainFollower.Follower{
		UserID:         userID,
		PlatformID:     platformID,
		Username:       "spam1234",
		Bio:            "follow me back, dm me for the link in bio",
		FollowerCount:  150,
		FollowingCount: 100,
	}
}
