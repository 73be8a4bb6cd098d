package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/config"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auth/oauth"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// refreshSkew is how long before expiry a platform token is refreshed.
const refreshSkew = time.Minute

type tokenSource struct {
	logger      *logrus.Logger
	cfg         config.TwitterConfig
	tokenClient oauth.TokenClient
	users       user.Repository
	group       singleflight.Group
	now         func() time.Time
}

// NewTokenSource refreshes expiring platform tokens with the refresh_token
// grant and stores the new pair on the user.
func NewTokenSource(
	logger *logrus.Logger,
	cfg config.TwitterConfig,
	tokenClient oauth.TokenClient,
	users user.Repository,
) platform.TokenSource {
	return &tokenSource{
		logger:      logger,
		cfg:         cfg,
		tokenClient: tokenClient,
		users:       users,
		now:         time.Now,
	}
}

func (t *tokenSource) AccessToken(ctx context.Context, u *user.User) (string, error) {
	if u.TokenExpiresAt == nil || u.RefreshToken == "" {
		return u.AccessToken, nil
	}
	if u.TokenExpiresAt.Sub(t.now()) > refreshSkew {
		return u.AccessToken, nil
	}

	v, err, _ := t.group.Do(u.ID.String(), func() (interface{}, error) {
		return t.refresh(ctx, u)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (t *tokenSource) refresh(ctx context.Context, u *user.User) (string, error) {
	token, err := t.tokenClient.GetToken(ctx, oauth.TokenRequestDTO{
		TokenURL:     t.cfg.TokenURL,
		GrantType:    oauth.GrantTypeRefreshToken,
		ClientID:     t.cfg.ClientID,
		ClientSecret: t.cfg.ClientSecret,
		UseBasicAuth: t.cfg.ClientSecret != "",
		RefreshToken: u.RefreshToken,
	})
	if err != nil {
		return "", fmt.Errorf("failed to refresh platform token: %w", err)
	}

	u.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		u.RefreshToken = token.RefreshToken
	}
	if token.ExpiresAt.IsZero() {
		u.TokenExpiresAt = nil
	} else {
		exp := token.ExpiresAt
		u.TokenExpiresAt = &exp
	}
	if err := t.users.Upsert(ctx, u); err != nil {
		t.logger.WithError(err).WithField("user_id", u.ID).Warn("failed to persist refreshed platform token")
	}
	return u.AccessToken, nil
}
