package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/NeuralTrust/FollowerManager/pkg/domain"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/cache"
	"github.com/sirupsen/logrus"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
	ErrUnknownUser  = errors.New("user not found")
)

type Authenticator interface {
	// Authenticate resolves a bearer token to its user. Revoked tokens and
	// tokens of deleted users are rejected.
	Authenticate(ctx context.Context, token string) (*user.User, *jwt.Claims, error)
}

type authenticator struct {
	logger     *logrus.Logger
	jwtManager jwt.Manager
	cache      cache.Client
	users      user.Repository
}

func NewAuthenticator(
	logger *logrus.Logger,
	jwtManager jwt.Manager,
	cacheClient cache.Client,
	users user.Repository,
) Authenticator {
	return &authenticator{
		logger:     logger,
		jwtManager: jwtManager,
		cache:      cacheClient,
		users:      users,
	}
}

func (a *authenticator) Authenticate(ctx context.Context, token string) (*user.User, *jwt.Claims, error) {
	claims, err := a.jwtManager.DecodeToken(token)
	if err != nil {
		a.logger.WithError(err).Debug("invalid token")
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, nil, ErrTokenExpired
		}
		return nil, nil, ErrTokenInvalid
	}

	revoked, err := a.cache.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, nil, ErrTokenRevoked
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, nil, ErrTokenInvalid
	}
	u, err := a.users.Get(ctx, userID)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return nil, nil, ErrUnknownUser
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	return u, claims, nil
}

// IsCredentialError reports whether err means the caller must sign in again.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenInvalid) ||
		errors.Is(err, ErrTokenRevoked) ||
		errors.Is(err, ErrUnknownUser)
}
