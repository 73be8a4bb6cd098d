package platform

import (
	"context"
	"errors"

	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
)

var (
	ErrUnauthorized = errors.New("platform rejected the access token")
	ErrRateLimited  = errors.New("API rate limit exceeded")
)

// Account is a platform profile as returned by the platform API.
type Account struct {
	ID             string
	Username       string
	DisplayName    string
	Bio            string
	AvatarURL      string
	FollowerCount  int
	FollowingCount int
	IsVerified     bool
	IsPrivate      bool
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore
type Client interface {
	Me(ctx context.Context, accessToken string) (*Account, error)
	Followers(ctx context.Context, accessToken, accountID string) ([]Account, error)
	Following(ctx context.Context, accessToken, accountID string) ([]Account, error)
	RemoveFollower(ctx context.Context, accessToken, accountID, followerID string) error
}

// TokenSource yields a usable access token for u, refreshing and persisting
// it when it is about to expire.
//
//go:generate mockery --name=TokenSource --dir=. --output=./mocks --filename=token_source_mock.go --case=underscore
type TokenSource interface {
	AccessToken(ctx context.Context, u *user.User) (string, error)
}

// StaticTokenSource returns the stored token as is.
type StaticTokenSource struct{}

func (StaticTokenSource) AccessToken(_ context.Context, u *user.User) (string, error) {
	return u.AccessToken, nil
}
